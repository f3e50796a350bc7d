package source

import (
	"fmt"

	"golang.org/x/net/bpf"

	"firestige.xyz/netsniff/internal/core"
	"firestige.xyz/netsniff/internal/filter"
)

// Offsets into an untagged Ethernet frame.
const (
	offEtherType = 12
	offIPProto   = core.EthernetHeaderLen + 9
	offIPHeader  = core.EthernetHeaderLen
)

// Prefilter returns a classic BPF program accepting Ethernet IPv4 frames whose
// TCP or UDP source or destination port is a well-known port allowed by mode.
// It is a superset of filter.ShouldReport, so userspace still classifies.
func Prefilter(mode filter.Mode, snapLen uint32) ([]bpf.Instruction, error) {
	prog := []bpf.Instruction{
		bpf.LoadAbsolute{Off: offEtherType, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: core.EtherTypeIPv4, SkipTrue: 1},
		bpf.RetConstant{Val: 0},
		// X = IPv4 header length, kept for every rule below
		bpf.LoadMemShift{Off: offIPHeader},
	}

	rules := 0
	for _, rule := range filter.WellKnownPorts() {
		if !mode.Allows(rule.Transport) {
			continue
		}
		prog = append(prog, portRule(protocolOf(rule.Transport), rule.Port, snapLen)...)
		rules++
	}
	if rules == 0 {
		return nil, fmt.Errorf("%w: mode %s matches no well-known port", core.ErrInvalidMode, mode)
	}

	return append(prog, bpf.RetConstant{Val: 0}), nil
}

// portRule matches one protocol and port on either side of the transport
// header. A miss falls through to the instruction after the block.
func portRule(proto uint8, port uint16, snapLen uint32) []bpf.Instruction {
	return []bpf.Instruction{
		bpf.LoadAbsolute{Off: offIPProto, Size: 1},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: uint32(proto), SkipFalse: 5},
		bpf.LoadIndirect{Off: offIPHeader, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: uint32(port), SkipTrue: 2},
		bpf.LoadIndirect{Off: offIPHeader + 2, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: uint32(port), SkipFalse: 1},
		bpf.RetConstant{Val: snapLen},
	}
}

func protocolOf(kind core.TransportKind) uint8 {
	if kind == core.TransportUDP {
		return core.ProtocolUDP
	}
	return core.ProtocolTCP
}
