// Package afpacket captures from a single Linux interface through an
// AF_PACKET TPACKET_V3 ring.
package afpacket

import "golang.org/x/net/bpf"

const Name = "afpacket"

// Options configures a live capture.
type Options struct {
	Device       string
	SnapLen      int
	BufferSizeMB int
	TimeoutMs    int
	Filter       []bpf.Instruction // optional kernel prefilter
}
