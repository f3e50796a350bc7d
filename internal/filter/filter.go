// Package filter decides which decoded frames are reported.
//
// The decision is two independent predicates ANDed together: the operator's
// protocol-family Mode, and a fixed well-known port rule (HTTP on TCP/80,
// DNS on UDP/53).
package filter

import (
	"fmt"
	"strings"

	"firestige.xyz/netsniff/internal/core"
)

// Mode is the operator-selected protocol family. It is chosen once per run.
type Mode uint8

const (
	ModeTCP Mode = iota + 1
	ModeUDP
	ModeAll
)

// String returns the config spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeTCP:
		return "tcp"
	case ModeUDP:
		return "udp"
	case ModeAll:
		return "all"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseMode accepts "tcp", "udp", "all" or the menu numbers 1, 2, 3.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tcp", "1":
		return ModeTCP, nil
	case "udp", "2":
		return ModeUDP, nil
	case "all", "3":
		return ModeAll, nil
	default:
		return 0, fmt.Errorf("%q (must be tcp/udp/all): %w", s, core.ErrInvalidMode)
	}
}

// Allows reports whether the mode selects the given transport.
func (m Mode) Allows(kind core.TransportKind) bool {
	switch kind {
	case core.TransportTCP:
		return m == ModeTCP || m == ModeAll
	case core.TransportUDP:
		return m == ModeUDP || m == ModeAll
	default:
		return false
	}
}

// ShouldReport returns true when the frame has a transport header, the mode
// selects its protocol family, and one of its ports is the well-known port
// for that family. Frames without a transport header are always dropped.
func ShouldReport(frame *core.ParsedFrame, mode Mode) bool {
	if frame == nil || !frame.HasTransport() {
		return false
	}
	return mode.Allows(frame.Transport) && Application(frame) != AppNone
}
