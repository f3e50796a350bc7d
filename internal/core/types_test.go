package core

import (
	"net/netip"
	"testing"
)

func TestIPv4BitFields(t *testing.T) {
	hdr := IPv4{
		0x46, 0x10, 0x01, 0x2c, // Version 4, IHL 6, TOS, Total Length 300
		0xbe, 0xef, 0x40, 0x05, // ID, DF + fragment offset 5
		0x40, 0x11, 0xab, 0xcd, // TTL 64, UDP, Checksum
		10, 0, 0, 1, // Src
		10, 0, 0, 2, // Dst
		0x01, 0x01, 0x01, 0x00, // Options (NOP NOP NOP EOL)
	}

	if hdr.Version() != 4 {
		t.Errorf("Expected version 4, got %d", hdr.Version())
	}
	if hdr.IHL() != 6 {
		t.Errorf("Expected IHL 6, got %d", hdr.IHL())
	}
	if hdr.HeaderLength() != 24 {
		t.Errorf("Expected header length 24, got %d", hdr.HeaderLength())
	}
	if hdr.TOS() != 0x10 {
		t.Errorf("Expected TOS 0x10, got 0x%02x", hdr.TOS())
	}
	if hdr.TotalLength() != 300 {
		t.Errorf("Expected total length 300, got %d", hdr.TotalLength())
	}
	if hdr.ID() != 0xbeef {
		t.Errorf("Expected ID 0xbeef, got 0x%04x", hdr.ID())
	}
	if hdr.Flags() != 0x2 {
		t.Errorf("Expected DF flag only, got 0x%x", hdr.Flags())
	}
	if hdr.FragmentOffset() != 5 {
		t.Errorf("Expected fragment offset 5, got %d", hdr.FragmentOffset())
	}
	if hdr.TTL() != 64 || hdr.Protocol() != ProtocolUDP {
		t.Errorf("Unexpected TTL/protocol %d/%d", hdr.TTL(), hdr.Protocol())
	}
	if hdr.Checksum() != 0xabcd {
		t.Errorf("Expected checksum 0xabcd, got 0x%04x", hdr.Checksum())
	}
	if hdr.SourceAddress() != netip.MustParseAddr("10.0.0.1") {
		t.Errorf("Unexpected source %v", hdr.SourceAddress())
	}
	if hdr.DestinationAddress() != netip.MustParseAddr("10.0.0.2") {
		t.Errorf("Unexpected destination %v", hdr.DestinationAddress())
	}
}

func TestTCPFlags(t *testing.T) {
	hdr := make(TCP, TCPMinHeaderLen)
	hdr[12] = 0x51 // Data offset 5, NS set
	hdr[13] = 0x12 // SYN + ACK

	if hdr.DataOffset() != 5 || hdr.HeaderLength() != 20 {
		t.Errorf("Unexpected data offset %d / %d bytes", hdr.DataOffset(), hdr.HeaderLength())
	}
	want := TCPFlagSyn | TCPFlagAck | TCPFlagNs
	if hdr.Flags() != want {
		t.Errorf("Expected flags 0x%03x, got 0x%03x", want, hdr.Flags())
	}
	if got := hdr.FlagString(); got != " S  A   " {
		t.Errorf("Unexpected flag string %q", got)
	}
}

func TestEthernetAccessors(t *testing.T) {
	eth := Ethernet{
		0x00, 0x11, 0x22, 0x33, 0x44, 0x55,
		0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff,
		0x86, 0xdd,
	}
	if eth.Destination().String() != "00:11:22:33:44:55" {
		t.Errorf("Unexpected destination %v", eth.Destination())
	}
	if eth.Source().String() != "aa:bb:cc:dd:ee:ff" {
		t.Errorf("Unexpected source %v", eth.Source())
	}
	if eth.EtherType() != 0x86dd {
		t.Errorf("Unexpected ether-type 0x%04x", eth.EtherType())
	}
}

func TestParsedFramePortsWithoutTransport(t *testing.T) {
	f := ParsedFrame{}
	src, dst := f.Ports()
	if f.HasTransport() || src != 0 || dst != 0 {
		t.Errorf("Expected empty transport, got %v %d %d", f.Transport, src, dst)
	}
}
