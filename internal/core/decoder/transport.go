// Package decoder implements protocol decoding.
package decoder

import "firestige.xyz/netsniff/internal/core"

// decodeTransport dispatches on the IPv4 protocol number. Protocols other
// than TCP and UDP yield TransportNone and no error.
func decodeTransport(data []byte, protocol uint8) (core.TransportKind, []byte, error) {
	switch protocol {
	case core.ProtocolTCP:
		hdr, err := decodeTCP(data)
		return core.TransportTCP, hdr, err
	case core.ProtocolUDP:
		hdr, err := decodeUDP(data)
		return core.TransportUDP, hdr, err
	default:
		return core.TransportNone, nil, nil
	}
}

// decodeUDP returns the fixed 8-byte UDP header.
func decodeUDP(data []byte) (core.UDP, error) {
	if len(data) < core.UDPHeaderLen {
		return nil, core.ErrTruncated
	}
	return core.UDP(data[:core.UDPHeaderLen]), nil
}

// decodeTCP returns the TCP header including options.
func decodeTCP(data []byte) (core.TCP, error) {
	if len(data) < core.TCPMinHeaderLen {
		return nil, core.ErrTruncated
	}

	// Data Offset (upper 4 bits of byte 12), in 32-bit words
	headerLen := int(data[12]>>4) * 4
	if headerLen < core.TCPMinHeaderLen || len(data) < headerLen {
		return nil, core.ErrTruncated
	}

	return core.TCP(data[:headerLen]), nil
}
