// Package decoder implements protocol decoding.
package decoder

import "firestige.xyz/netsniff/internal/core"

// decodeIPv4 validates the IPv4 header at the start of data and returns a
// view over exactly IHL*4 bytes.
func decodeIPv4(data []byte) (core.IPv4, error) {
	if len(data) < core.IPv4MinHeaderLen {
		return nil, core.ErrTruncated
	}

	// IHL (Internet Header Length) - lower 4 bits of first byte, in 32-bit words
	headerLen := int(data[0]&0x0f) * 4
	if headerLen < core.IPv4MinHeaderLen || len(data) < headerLen {
		return nil, core.ErrTruncated
	}

	return core.IPv4(data[:headerLen]), nil
}
