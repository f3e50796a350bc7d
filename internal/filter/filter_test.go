package filter

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/netsniff/internal/core"
)

func tcpFrame(src, dst uint16) *core.ParsedFrame {
	hdr := make(core.TCP, core.TCPMinHeaderLen)
	binary.BigEndian.PutUint16(hdr[0:], src)
	binary.BigEndian.PutUint16(hdr[2:], dst)
	hdr[12] = 0x50
	return &core.ParsedFrame{Transport: core.TransportTCP, TCP: hdr}
}

func udpFrame(src, dst uint16) *core.ParsedFrame {
	hdr := make(core.UDP, core.UDPHeaderLen)
	binary.BigEndian.PutUint16(hdr[0:], src)
	binary.BigEndian.PutUint16(hdr[2:], dst)
	return &core.ParsedFrame{Transport: core.TransportUDP, UDP: hdr}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  Mode
	}{
		{"tcp", ModeTCP},
		{"TCP", ModeTCP},
		{"1", ModeTCP},
		{"udp", ModeUDP},
		{" 2 ", ModeUDP},
		{"all", ModeAll},
		{"3", ModeAll},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.input == tt.want.String() {
				assert.Equal(t, tt.input, got.String())
			}
		})
	}

	for _, bad := range []string{"", "0", "4", "icmp", "tcp,udp"} {
		_, err := ParseMode(bad)
		assert.ErrorIs(t, err, core.ErrInvalidMode, bad)
	}
}

func TestShouldReportTCP(t *testing.T) {
	fromHTTP := tcpFrame(80, 51000)
	toHTTP := tcpFrame(8080, 80)
	other := tcpFrame(8080, 443)

	assert.True(t, ShouldReport(fromHTTP, ModeTCP))
	assert.True(t, ShouldReport(fromHTTP, ModeAll))
	assert.False(t, ShouldReport(fromHTTP, ModeUDP))

	assert.True(t, ShouldReport(toHTTP, ModeAll))
	assert.False(t, ShouldReport(other, ModeTCP))
	assert.False(t, ShouldReport(other, ModeAll))
}

func TestShouldReportUDP(t *testing.T) {
	query := udpFrame(40000, 53)
	answer := udpFrame(53, 40000)
	mdns := udpFrame(5353, 5353)

	assert.True(t, ShouldReport(query, ModeUDP))
	assert.True(t, ShouldReport(answer, ModeAll))
	assert.False(t, ShouldReport(query, ModeTCP))
	assert.False(t, ShouldReport(mdns, ModeAll))
}

func TestShouldReportPortRuleIsPerProtocol(t *testing.T) {
	// TCP/53 and UDP/80 are not in the rule table.
	assert.False(t, ShouldReport(tcpFrame(53, 1000), ModeAll))
	assert.False(t, ShouldReport(udpFrame(80, 1000), ModeAll))
}

func TestShouldReportWithoutTransport(t *testing.T) {
	icmp := &core.ParsedFrame{IP: make(core.IPv4, core.IPv4MinHeaderLen)}
	for _, mode := range []Mode{ModeTCP, ModeUDP, ModeAll} {
		assert.False(t, ShouldReport(icmp, mode), mode.String())
		assert.False(t, ShouldReport(nil, mode), mode.String())
	}
}

func TestShouldReportIsDeterministic(t *testing.T) {
	frame := tcpFrame(80, 80)
	first := ShouldReport(frame, ModeAll)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ShouldReport(frame, ModeAll))
	}
}

func TestApplication(t *testing.T) {
	assert.Equal(t, AppHTTP, Application(tcpFrame(80, 1234)))
	assert.Equal(t, AppDNS, Application(udpFrame(1234, 53)))
	assert.Equal(t, AppNone, Application(udpFrame(1234, 123)))
	assert.Equal(t, AppNone, Application(&core.ParsedFrame{}))
}

func TestWellKnownPortsReturnsCopy(t *testing.T) {
	rules := WellKnownPorts()
	require.Len(t, rules, 2)
	rules[0].Port = 8080
	assert.Equal(t, AppNone, Application(tcpFrame(8080, 1)))
}

func TestModeAllows(t *testing.T) {
	assert.True(t, ModeAll.Allows(core.TransportTCP))
	assert.True(t, ModeAll.Allows(core.TransportUDP))
	assert.False(t, ModeAll.Allows(core.TransportNone))
	assert.False(t, Mode(0).Allows(core.TransportTCP))
}
