// Package decoder implements L2-L4 frame decoding onto core header views.
package decoder

import (
	"fmt"

	"firestige.xyz/netsniff/internal/core"
)

// Decoder decodes raw packets into header views.
type Decoder interface {
	Decode(raw core.RawPacket) (core.ParsedFrame, error)
}

// Parse walks the first size bytes of buf and returns the header views found
// there. Every offset derived from a length field is checked against size
// before the corresponding view is exposed.
//
// On core.ErrNotIPv4 the returned frame carries the Ethernet view. On a
// truncation error the frame holds whatever layers were validated so far and
// must not be classified.
func Parse(buf []byte, size int) (core.ParsedFrame, error) {
	if size < 0 || size > len(buf) {
		return core.ParsedFrame{}, fmt.Errorf("size %d, buffer %d: %w", size, len(buf), core.ErrInvalidSize)
	}
	// Cap the slice so no view can be resliced past the frame end.
	data := buf[:size:size]

	eth, err := decodeEthernet(data)
	if err != nil {
		return core.ParsedFrame{}, fmt.Errorf("ethernet: %w", err)
	}
	frame := core.ParsedFrame{Ethernet: eth}
	if eth.EtherType() != core.EtherTypeIPv4 {
		return frame, core.ErrNotIPv4
	}

	ip, err := decodeIPv4(data[core.EthernetHeaderLen:])
	if err != nil {
		return frame, fmt.Errorf("ipv4: %w", err)
	}
	frame.IP = ip

	offset := core.EthernetHeaderLen + ip.HeaderLength()
	kind, hdr, err := decodeTransport(data[offset:], ip.Protocol())
	if err != nil {
		return frame, fmt.Errorf("%s: %w", kind, err)
	}
	switch kind {
	case core.TransportTCP:
		frame.TCP = core.TCP(hdr)
	case core.TransportUDP:
		frame.UDP = core.UDP(hdr)
	default:
		return frame, nil
	}
	frame.Transport = kind
	frame.PayloadOffset = offset + len(hdr)
	frame.Payload = data[frame.PayloadOffset:]
	return frame, nil
}

// StandardDecoder decodes Ethernet/IPv4/TCP/UDP frames. It is stateless and
// keeps no reference to the frames it decodes; outcome counting belongs to
// the caller.
type StandardDecoder struct{}

// NewStandardDecoder creates a decoder.
func NewStandardDecoder() *StandardDecoder {
	return &StandardDecoder{}
}

// Decode implements Decoder.
func (d *StandardDecoder) Decode(raw core.RawPacket) (core.ParsedFrame, error) {
	return Parse(raw.Data, len(raw.Data))
}
