// Package core defines core data structures with zero external dependencies.
package core

import "time"

// RawPacket is one link-layer frame handed over by a capture source. Data may
// alias a ring buffer slot and is only valid until the next read.
type RawPacket struct {
	Data           []byte    // Raw frame data, zero-copy slice
	Timestamp      time.Time // Capture timestamp
	CaptureLen     uint32    // Bytes actually captured
	OrigLen        uint32    // Original frame length on the wire
	InterfaceIndex int
}

// TransportKind selects which transport view of a ParsedFrame is set.
type TransportKind uint8

const (
	TransportNone TransportKind = iota
	TransportTCP
	TransportUDP
)

func (k TransportKind) String() string {
	switch k {
	case TransportTCP:
		return "tcp"
	case TransportUDP:
		return "udp"
	default:
		return "none"
	}
}

// ParsedFrame bundles the header views found in one frame. Ethernet is always
// set; IP is nil unless the ether-type was IPv4; TCP or UDP is set according
// to Transport. All views and Payload borrow from the decoded buffer.
type ParsedFrame struct {
	Ethernet  Ethernet
	IP        IPv4
	Transport TransportKind
	TCP       TCP
	UDP       UDP

	// PayloadOffset is the absolute offset of the first byte after the
	// transport header. It is zero when there is no transport header.
	PayloadOffset int
	Payload       []byte
}

// HasTransport reports whether a TCP or UDP header was decoded.
func (f *ParsedFrame) HasTransport() bool {
	return f.Transport != TransportNone
}

// Ports returns the transport source and destination ports, or zeros when
// there is no transport header.
func (f *ParsedFrame) Ports() (src, dst uint16) {
	switch f.Transport {
	case TransportTCP:
		return f.TCP.SourcePort(), f.TCP.DestinationPort()
	case TransportUDP:
		return f.UDP.SourcePort(), f.UDP.DestinationPort()
	default:
		return 0, 0
	}
}
