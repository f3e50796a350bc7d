// Package console renders reported frames as human-readable text.
package console

import (
	"fmt"
	"net"
	"strings"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"firestige.xyz/netsniff/internal/core"
	"firestige.xyz/netsniff/internal/filter"
	"firestige.xyz/netsniff/internal/log"
)

const (
	defaultDNSPayloadLimit = 100
	defaultLineWidth       = 16

	separator = "=================================================="
)

// Printable selects which byte values the payload dump shows verbatim.
type Printable string

const (
	// PrintableLegacy shows 32..128, the classic raw-socket sniffer range
	// where DEL and 0x80 slip through. It is the default.
	PrintableLegacy Printable = "legacy"
	// PrintableASCII shows 32..126 and replaces everything else.
	PrintableASCII Printable = "ascii"
)

func (p Printable) allows(b byte) bool {
	if p == PrintableLegacy {
		return b >= 32 && b <= 128
	}
	return b >= 32 && b <= 126
}

// Options configures a Formatter. Zero values select the defaults.
type Options struct {
	Printable       Printable
	DNSPayloadLimit int
	LineWidth       int
}

// Formatter turns a parsed frame into display lines. It never mutates the
// frame and keeps no reference to it.
type Formatter struct {
	printable       Printable
	dnsPayloadLimit int
	lineWidth       int
}

// NewFormatter creates a formatter.
func NewFormatter(opts Options) *Formatter {
	f := &Formatter{
		printable:       opts.Printable,
		dnsPayloadLimit: opts.DNSPayloadLimit,
		lineWidth:       opts.LineWidth,
	}
	if f.printable == "" {
		f.printable = PrintableLegacy
	}
	if f.dnsPayloadLimit <= 0 {
		f.dnsPayloadLimit = defaultDNSPayloadLimit
	}
	if f.lineWidth <= 0 {
		f.lineWidth = defaultLineWidth
	}
	return f
}

// Lines renders the frame headers and, for HTTP or DNS traffic, its payload.
func (f *Formatter) Lines(frame *core.ParsedFrame) []string {
	lines := []string{"", separator}
	lines = append(lines, f.ethernetLines(frame.Ethernet)...)
	if frame.IP == nil {
		return lines
	}
	lines = append(lines, f.ipLines(frame.IP)...)

	app := filter.Application(frame)
	switch frame.Transport {
	case core.TransportTCP:
		lines = append(lines, f.tcpLines(frame.TCP)...)
		if app == filter.AppHTTP {
			lines = append(lines, "   [HTTP Protocol Detected]")
			lines = append(lines, f.PayloadLines(frame.Payload)...)
		}
	case core.TransportUDP:
		lines = append(lines, f.udpLines(frame.UDP)...)
		if app == filter.AppDNS {
			payload := frame.Payload
			if len(payload) > f.dnsPayloadLimit {
				payload = payload[:f.dnsPayloadLimit]
			}
			lines = append(lines, "   [DNS Protocol Detected]")
			lines = append(lines, dnsLines(frame.Payload)...)
			lines = append(lines, f.PayloadLines(payload)...)
		}
	}
	return lines
}

func (f *Formatter) ethernetLines(eth core.Ethernet) []string {
	return []string{
		"Ethernet Header",
		"   |-Source Address      : " + formatMAC(eth.Source()),
		"   |-Destination Address : " + formatMAC(eth.Destination()),
	}
}

func (f *Formatter) ipLines(ip core.IPv4) []string {
	return []string{
		"",
		"IP Header",
		fmt.Sprintf("   |-IP Version        : %d", ip.Version()),
		fmt.Sprintf("   |-Header Length     : %d DWORDS or %d Bytes", ip.IHL(), ip.HeaderLength()),
		fmt.Sprintf("   |-Total Length      : %d Bytes", ip.TotalLength()),
		fmt.Sprintf("   |-TTL               : %d", ip.TTL()),
		fmt.Sprintf("   |-Protocol          : %d", ip.Protocol()),
		fmt.Sprintf("   |-Checksum          : %d", ip.Checksum()),
		fmt.Sprintf("   |-Source IP         : %s", ip.SourceAddress()),
		fmt.Sprintf("   |-Destination IP    : %s", ip.DestinationAddress()),
	}
}

func (f *Formatter) tcpLines(tcp core.TCP) []string {
	return []string{
		"",
		"TCP Header",
		fmt.Sprintf("   |-Source Port      : %d", tcp.SourcePort()),
		fmt.Sprintf("   |-Destination Port : %d", tcp.DestinationPort()),
		fmt.Sprintf("   |-Sequence Number  : %d", tcp.SequenceNumber()),
		fmt.Sprintf("   |-Acknowledge No   : %d", tcp.AckNumber()),
		fmt.Sprintf("   |-Header Length    : %d DWORDS or %d Bytes", tcp.DataOffset(), tcp.HeaderLength()),
		fmt.Sprintf("   |-Flags            : [%s]", tcp.FlagString()),
		fmt.Sprintf("   |-Window Size      : %d", tcp.WindowSize()),
		fmt.Sprintf("   |-Checksum         : %d", tcp.Checksum()),
		fmt.Sprintf("   |-Urgent Pointer   : %d", tcp.UrgentPointer()),
	}
}

func (f *Formatter) udpLines(udp core.UDP) []string {
	return []string{
		"",
		"UDP Header",
		fmt.Sprintf("   |-Source Port      : %d", udp.SourcePort()),
		fmt.Sprintf("   |-Destination Port : %d", udp.DestinationPort()),
		fmt.Sprintf("   |-UDP Length       : %d", udp.Length()),
		fmt.Sprintf("   |-Checksum         : %d", udp.Checksum()),
	}
}

// PayloadLines dumps data lineWidth bytes per line. Every byte yields exactly
// one character; non-printable bytes become '.'. Empty data yields no lines.
func (f *Formatter) PayloadLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	lines := make([]string, 0, 1+(len(data)+f.lineWidth-1)/f.lineWidth)
	lines = append(lines, "Data Payload:")

	var sb strings.Builder
	for i := 0; i < len(data); i += f.lineWidth {
		end := min(i+f.lineWidth, len(data))
		sb.Reset()
		for _, b := range data[i:end] {
			if f.printable.allows(b) {
				sb.WriteByte(b)
			} else {
				sb.WriteByte('.')
			}
		}
		lines = append(lines, sb.String())
	}
	return lines
}

// dnsHeaderLen is the fixed DNS message header size.
const dnsHeaderLen = 12

// dnsLines summarises the DNS message header and questions. Payloads that do
// not decode as DNS produce no lines.
func dnsLines(payload []byte) (lines []string) {
	if len(payload) < dnsHeaderLen {
		return nil
	}
	// layers.DNS indexes past the end of some malformed messages.
	defer func() {
		if r := recover(); r != nil {
			log.GetLogger().WithField("panic", r).Debug("dns payload not decodable")
			lines = nil
		}
	}()

	var msg layers.DNS
	if err := msg.DecodeFromBytes(payload, gopacket.NilDecodeFeedback); err != nil {
		log.GetLogger().WithError(err).Debug("dns payload not decodable")
		return nil
	}

	lines = []string{
		fmt.Sprintf("   |-Transaction ID   : 0x%04X", msg.ID),
		fmt.Sprintf("   |-DNS Flags        : QR=%t Opcode=%s RCode=%s", msg.QR, msg.OpCode, msg.ResponseCode),
		fmt.Sprintf("   |-Questions        : %d", msg.QDCount),
		fmt.Sprintf("   |-Answers          : %d", msg.ANCount),
		fmt.Sprintf("   |-Authority        : %d", msg.NSCount),
		fmt.Sprintf("   |-Additional       : %d", msg.ARCount),
	}
	for _, q := range msg.Questions {
		lines = append(lines, fmt.Sprintf("   |-Query            : %s %s %s", q.Name, q.Type, q.Class))
	}
	return lines
}

// formatMAC renders AA-BB-CC-DD-EE-FF.
func formatMAC(mac net.HardwareAddr) string {
	return strings.ToUpper(strings.ReplaceAll(mac.String(), ":", "-"))
}
