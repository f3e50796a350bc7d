package filter

import "firestige.xyz/netsniff/internal/core"

// App names an application protocol recognised by port.
type App string

const (
	AppNone App = ""
	AppHTTP App = "HTTP"
	AppDNS  App = "DNS"
)

// WellKnownPort maps a transport protocol and port to an application.
type WellKnownPort struct {
	Transport core.TransportKind
	Port      uint16
	App       App
}

// wellKnownPorts is the fixed interest rule. Adding a row extends what gets
// reported without touching Mode.
var wellKnownPorts = []WellKnownPort{
	{Transport: core.TransportTCP, Port: 80, App: AppHTTP},
	{Transport: core.TransportUDP, Port: 53, App: AppDNS},
}

// WellKnownPorts returns a copy of the port rule table.
func WellKnownPorts() []WellKnownPort {
	out := make([]WellKnownPort, len(wellKnownPorts))
	copy(out, wellKnownPorts)
	return out
}

// Application returns the application matched by either port of the frame,
// or AppNone.
func Application(frame *core.ParsedFrame) App {
	if frame == nil || !frame.HasTransport() {
		return AppNone
	}
	src, dst := frame.Ports()
	for _, rule := range wellKnownPorts {
		if rule.Transport != frame.Transport {
			continue
		}
		if src == rule.Port || dst == rule.Port {
			return rule.App
		}
	}
	return AppNone
}
