// Package decoder implements protocol decoding.
package decoder

import "firestige.xyz/netsniff/internal/core"

// decodeEthernet validates and returns the Ethernet II header view.
// 802.1Q tags are not unwrapped: a tagged frame reports ether-type 0x8100
// and is treated as non-IPv4.
func decodeEthernet(data []byte) (core.Ethernet, error) {
	if len(data) < core.EthernetHeaderLen {
		return nil, core.ErrTruncated
	}
	return core.Ethernet(data[:core.EthernetHeaderLen]), nil
}
