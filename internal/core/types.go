// Package core defines the header views shared by the decoder, the filter and
// the console sink. Views are byte slices over the captured frame; they never
// copy and are only valid while the frame buffer is.
package core

import (
	"encoding/binary"
	"net"
	"net/netip"
)

const (
	EthernetHeaderLen = 14
	IPv4MinHeaderLen  = 20
	IPv4MaxHeaderLen  = 60
	TCPMinHeaderLen   = 20
	UDPHeaderLen      = 8

	EtherTypeIPv4 = 0x0800

	ProtocolTCP = 6
	ProtocolUDP = 17
)

// Ethernet is an Ethernet II header view. Callers must hold at least
// EthernetHeaderLen bytes before using the accessors.
type Ethernet []byte

// Destination returns the destination MAC address.
func (b Ethernet) Destination() net.HardwareAddr { return net.HardwareAddr(b[0:6]) }

// Source returns the source MAC address.
func (b Ethernet) Source() net.HardwareAddr { return net.HardwareAddr(b[6:12]) }

// EtherType returns the ether-type field in host order.
func (b Ethernet) EtherType() uint16 { return binary.BigEndian.Uint16(b[12:14]) }

const (
	ipVersIHL   = 0
	ipTOS       = 1
	ipTotalLen  = 2
	ipID        = 4
	ipFlagsFO   = 6
	ipTTL       = 8
	ipProtocol  = 9
	ipChecksum  = 10
	ipSrcAddr   = 12
	ipDstAddr   = 16
	ipAddrBytes = 4
)

// IPv4 is an IPv4 header view spanning exactly HeaderLength() bytes.
// The decoder only hands out views whose IHL has been range-checked.
type IPv4 []byte

// Version returns the upper nibble of the first byte.
func (b IPv4) Version() uint8 { return b[ipVersIHL] >> 4 }

// IHL returns the header length in 32-bit words.
func (b IPv4) IHL() uint8 { return b[ipVersIHL] & 0x0f }

// HeaderLength returns the header length in bytes (IHL * 4).
func (b IPv4) HeaderLength() int { return int(b.IHL()) * 4 }

func (b IPv4) TOS() uint8 { return b[ipTOS] }

func (b IPv4) TotalLength() uint16 { return binary.BigEndian.Uint16(b[ipTotalLen:]) }

func (b IPv4) ID() uint16 { return binary.BigEndian.Uint16(b[ipID:]) }

// Flags returns the 3 flag bits (reserved, DF, MF).
func (b IPv4) Flags() uint8 { return b[ipFlagsFO] >> 5 }

// FragmentOffset returns the fragment offset in 8-byte units.
func (b IPv4) FragmentOffset() uint16 {
	return binary.BigEndian.Uint16(b[ipFlagsFO:]) & 0x1fff
}

func (b IPv4) TTL() uint8 { return b[ipTTL] }

func (b IPv4) Protocol() uint8 { return b[ipProtocol] }

func (b IPv4) Checksum() uint16 { return binary.BigEndian.Uint16(b[ipChecksum:]) }

// SourceAddress returns the source address.
func (b IPv4) SourceAddress() netip.Addr {
	return netip.AddrFrom4([ipAddrBytes]byte(b[ipSrcAddr : ipSrcAddr+ipAddrBytes]))
}

// DestinationAddress returns the destination address.
func (b IPv4) DestinationAddress() netip.Addr {
	return netip.AddrFrom4([ipAddrBytes]byte(b[ipDstAddr : ipDstAddr+ipAddrBytes]))
}

const (
	tcpSrcPort    = 0
	tcpDstPort    = 2
	tcpSeqNum     = 4
	tcpAckNum     = 8
	tcpDataOffset = 12
	tcpFlags      = 13
	tcpWinSize    = 14
	tcpChecksum   = 16
	tcpUrgentPtr  = 18
)

// TCP flag bits as laid out in the low 9 bits of bytes 12-13.
const (
	TCPFlagFin uint16 = 1 << iota
	TCPFlagSyn
	TCPFlagRst
	TCPFlagPsh
	TCPFlagAck
	TCPFlagUrg
	TCPFlagEce
	TCPFlagCwr
	TCPFlagNs
)

// TCP is a TCP header view spanning exactly HeaderLength() bytes, options
// included.
type TCP []byte

func (b TCP) SourcePort() uint16 { return binary.BigEndian.Uint16(b[tcpSrcPort:]) }

func (b TCP) DestinationPort() uint16 { return binary.BigEndian.Uint16(b[tcpDstPort:]) }

func (b TCP) SequenceNumber() uint32 { return binary.BigEndian.Uint32(b[tcpSeqNum:]) }

func (b TCP) AckNumber() uint32 { return binary.BigEndian.Uint32(b[tcpAckNum:]) }

// DataOffset returns the header length in 32-bit words.
func (b TCP) DataOffset() uint8 { return b[tcpDataOffset] >> 4 }

// HeaderLength returns the header length in bytes (DataOffset * 4).
func (b TCP) HeaderLength() int { return int(b.DataOffset()) * 4 }

// Flags returns the 9 control bits, NS included.
func (b TCP) Flags() uint16 {
	return uint16(b[tcpDataOffset]&0x01)<<8 | uint16(b[tcpFlags])
}

func (b TCP) WindowSize() uint16 { return binary.BigEndian.Uint16(b[tcpWinSize:]) }

func (b TCP) Checksum() uint16 { return binary.BigEndian.Uint16(b[tcpChecksum:]) }

func (b TCP) UrgentPointer() uint16 { return binary.BigEndian.Uint16(b[tcpUrgentPtr:]) }

// FlagString renders the flags as "FSRPAUEC", blanking the ones not set.
func (b TCP) FlagString() string {
	flags := b.Flags()
	s := []byte("FSRPAUEC")
	for i := range s {
		if flags&(1<<uint(i)) == 0 {
			s[i] = ' '
		}
	}
	return string(s)
}

// UDP is a fixed 8-byte UDP header view.
type UDP []byte

func (b UDP) SourcePort() uint16 { return binary.BigEndian.Uint16(b[0:]) }

func (b UDP) DestinationPort() uint16 { return binary.BigEndian.Uint16(b[2:]) }

// Length returns the UDP length field (header plus data).
func (b UDP) Length() uint16 { return binary.BigEndian.Uint16(b[4:]) }

func (b UDP) Checksum() uint16 { return binary.BigEndian.Uint16(b[6:]) }
