package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/netsniff/internal/core"
	"firestige.xyz/netsniff/internal/filter"
	"firestige.xyz/netsniff/internal/sink/console"
)

// MockSource replays frames and then returns its terminal error.
type MockSource struct {
	frames [][]byte
	end    error
	pos    int
	closed bool
}

func NewMockSource(end error, frames ...[]byte) *MockSource {
	return &MockSource{frames: frames, end: end}
}

func (m *MockSource) ReadFrame(ctx context.Context) (core.RawPacket, error) {
	if err := ctx.Err(); err != nil {
		return core.RawPacket{}, err
	}
	if m.pos >= len(m.frames) {
		return core.RawPacket{}, m.end
	}
	data := m.frames[m.pos]
	m.pos++
	return core.RawPacket{
		Data:       data,
		Timestamp:  time.Now(),
		CaptureLen: uint32(len(data)),
		OrigLen:    uint32(len(data)),
	}, nil
}

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// MockSink records the destination ports of frames it receives.
type MockSink struct {
	ports []uint16
	err   error
}

func (m *MockSink) Send(frame *core.ParsedFrame) error {
	if m.err != nil {
		return m.err
	}
	_, dst := frame.Ports()
	m.ports = append(m.ports, dst)
	return nil
}

func buildFrame(t *testing.T, ip *layers.IPv4, l4 gopacket.SerializableLayer, payload []byte) []byte {
	t.Helper()
	eth := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0x00, 0x1a, 0x2b, 0x3c, 0x4d, 0x5e},
		DstMAC:       net.HardwareAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff},
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip.Version, ip.TTL = 4, 64
	ip.SrcIP, ip.DstIP = net.IP{192, 168, 1, 10}, net.IP{93, 184, 216, 34}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true}
	layersToWrite := []gopacket.SerializableLayer{eth, ip}
	if l4 != nil {
		layersToWrite = append(layersToWrite, l4)
	}
	layersToWrite = append(layersToWrite, gopacket.Payload(payload))
	require.NoError(t, gopacket.SerializeLayers(buf, opts, layersToWrite...))
	return buf.Bytes()
}

func tcpFrame(t *testing.T, dst uint16, payload string) []byte {
	return buildFrame(t, &layers.IPv4{Protocol: layers.IPProtocolTCP},
		&layers.TCP{SrcPort: 51000, DstPort: layers.TCPPort(dst), DataOffset: 5, ACK: true, PSH: true},
		[]byte(payload))
}

func udpFrame(t *testing.T, dst uint16, payload string) []byte {
	return buildFrame(t, &layers.IPv4{Protocol: layers.IPProtocolUDP},
		&layers.UDP{SrcPort: 40000, DstPort: layers.UDPPort(dst)},
		[]byte(payload))
}

func icmpFrame(t *testing.T) []byte {
	return buildFrame(t, &layers.IPv4{Protocol: layers.IPProtocolICMPv4},
		&layers.ICMPv4{TypeCode: layers.CreateICMPv4TypeCode(layers.ICMPv4TypeEchoRequest, 0)},
		[]byte("ping"))
}

func arpFrame() []byte {
	frame := make([]byte, 42)
	frame[12], frame[13] = 0x08, 0x06
	return frame
}

func TestRunHTTPEndToEnd(t *testing.T) {
	var out bytes.Buffer
	src := NewMockSource(io.EOF, tcpFrame(t, 80, "GET / HTTP/1.1\r\n"))
	p := NewBuilder().
		WithSource(src).
		WithSink(console.NewSink(&out, nil)).
		WithMode(filter.ModeTCP).
		Build()

	require.NoError(t, p.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "   |-Destination Port : 80")
	assert.Contains(t, text, "   [HTTP Protocol Detected]")
	assert.Contains(t, text, "GET / HTTP/1.1..")
	assert.Contains(t, text, "   |-Source Address      : 00-1A-2B-3C-4D-5E")
	assert.Equal(t, Stats{Received: 1, Decoded: 1, Reported: 1}, p.Stats())
}

func TestRunDropsWithoutOutput(t *testing.T) {
	var out bytes.Buffer
	truncated := tcpFrame(t, 80, "x")[:30]
	src := NewMockSource(io.EOF,
		icmpFrame(t),
		arpFrame(),
		truncated,
		tcpFrame(t, 443, "tls"),
	)
	p := New(Config{Source: src, Sink: console.NewSink(&out, nil), Mode: filter.ModeAll})

	require.NoError(t, p.Run(context.Background()))

	assert.Empty(t, out.String())
	assert.Equal(t, Stats{
		Received:    4,
		Decoded:     2,
		Truncated:   1,
		NotIPv4:     1,
		NoTransport: 1,
		Filtered:    1,
	}, p.Stats())
}

func TestRunModeSelectsFamily(t *testing.T) {
	tests := []struct {
		mode filter.Mode
		want []uint16
	}{
		{filter.ModeTCP, []uint16{80}},
		{filter.ModeUDP, []uint16{53}},
		{filter.ModeAll, []uint16{80, 53}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			sink := &MockSink{}
			src := NewMockSource(io.EOF,
				tcpFrame(t, 80, "GET"),
				udpFrame(t, 53, "q"),
				udpFrame(t, 80, "not http"),
				tcpFrame(t, 53, "not dns"),
			)
			p := New(Config{Source: src, Sink: sink, Mode: tt.mode})

			require.NoError(t, p.Run(context.Background()))
			assert.Equal(t, tt.want, sink.ports)
			assert.Equal(t, uint64(4), p.Stats().Received)
			assert.Equal(t, uint64(4-len(tt.want)), p.Stats().Filtered)
		})
	}
}

func TestRunDNSTruncatedDump(t *testing.T) {
	var out bytes.Buffer
	payload := strings.Repeat("z", 150)
	src := NewMockSource(io.EOF, udpFrame(t, 53, payload))
	p := New(Config{Source: src, Sink: console.NewSink(&out, nil), Mode: filter.ModeUDP})

	require.NoError(t, p.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "   [DNS Protocol Detected]")
	assert.Equal(t, 100, strings.Count(text, "z"))
}

func TestRunSurvivesMalformedDNS(t *testing.T) {
	var out bytes.Buffer
	src := NewMockSource(io.EOF,
		udpFrame(t, 53, "query"),
		udpFrame(t, 53, "\xea\x14\x41\xd4\x80\xc1\x4b\x8b\x69\x45\xe7\x6a\x00\x18"),
		tcpFrame(t, 80, "GET"),
	)
	p := New(Config{Source: src, Sink: console.NewSink(&out, nil), Mode: filter.ModeAll})

	require.NoError(t, p.Run(context.Background()))

	assert.Equal(t, 2, strings.Count(out.String(), "[DNS Protocol Detected]"))
	assert.Contains(t, out.String(), "[HTTP Protocol Detected]")
	assert.Equal(t, Stats{Received: 3, Decoded: 3, Reported: 3}, p.Stats())
}

func TestRunSourceError(t *testing.T) {
	boom := errors.New("ring torn down")
	src := NewMockSource(boom, udpFrame(t, 53, "q"))
	p := New(Config{Source: src, Sink: &MockSink{}, Mode: filter.ModeAll})

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, uint64(1), p.Stats().Reported)
}

func TestRunSinkError(t *testing.T) {
	broken := errors.New("stdout closed")
	src := NewMockSource(io.EOF, tcpFrame(t, 80, "GET"), tcpFrame(t, 80, "GET"))
	p := New(Config{Source: src, Sink: &MockSink{err: broken}, Mode: filter.ModeAll})

	err := p.Run(context.Background())
	assert.ErrorIs(t, err, broken)
	assert.Equal(t, uint64(1), p.Stats().Received)
	assert.Equal(t, uint64(0), p.Stats().Reported)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := NewMockSource(io.EOF, tcpFrame(t, 80, "GET"))
	p := New(Config{Source: src, Sink: &MockSink{}, Mode: filter.ModeAll})

	assert.NoError(t, p.Run(ctx))
	assert.Equal(t, uint64(0), p.Stats().Received)
}

func TestRunRequiresSourceAndSink(t *testing.T) {
	p := New(Config{Mode: filter.ModeAll})
	assert.ErrorIs(t, p.Run(context.Background()), core.ErrConfigInvalid)
}

func TestRunIDGenerated(t *testing.T) {
	a := New(Config{})
	b := New(Config{})
	assert.Len(t, a.RunID(), 36)
	assert.NotEqual(t, a.RunID(), b.RunID())

	c := NewBuilder().WithRunID("fixed").Build()
	assert.Equal(t, "fixed", c.RunID())
}
