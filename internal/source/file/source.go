// Package file replays frames from a pcap or pcapng capture file.
package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"firestige.xyz/netsniff/internal/core"
	"firestige.xyz/netsniff/internal/log"
)

const Name = "file"

type packetReader interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	LinkType() layers.LinkType
}

type Source struct {
	path   string
	f      *os.File
	reader packetReader
}

// NewSource opens path as pcap, falling back to pcapng. Only Ethernet
// captures are accepted.
func NewSource(path string) (*Source, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: pcap file path is required", core.ErrConfigInvalid)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", core.ErrCapture, path, err)
	}

	reader, err := newReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %w", core.ErrCapture, path, err)
	}
	if lt := reader.LinkType(); lt != layers.LinkTypeEthernet {
		f.Close()
		return nil, fmt.Errorf("%w: %s: unsupported link type %s", core.ErrCapture, path, lt)
	}

	log.GetLogger().WithField("file", path).Info("pcap source opened")
	return &Source{path: path, f: f, reader: reader}, nil
}

func newReader(f *os.File) (packetReader, error) {
	r, err := pcapgo.NewReader(bufio.NewReader(f))
	if err == nil {
		return r, nil
	}
	if _, serr := f.Seek(0, io.SeekStart); serr != nil {
		return nil, serr
	}
	ng, ngErr := pcapgo.NewNgReader(bufio.NewReader(f), pcapgo.DefaultNgReaderOptions)
	if ngErr != nil {
		return nil, fmt.Errorf("not a pcap or pcapng file: %w", err)
	}
	return ng, nil
}

// ReadFrame returns the next frame from the file, or io.EOF at its end.
func (s *Source) ReadFrame(ctx context.Context) (core.RawPacket, error) {
	if err := ctx.Err(); err != nil {
		return core.RawPacket{}, err
	}
	if s.reader == nil {
		return core.RawPacket{}, fmt.Errorf("%w: %s is closed", core.ErrCapture, s.path)
	}
	data, ci, err := s.reader.ReadPacketData()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return core.RawPacket{}, io.EOF
		}
		return core.RawPacket{}, fmt.Errorf("%w: read %s: %w", core.ErrCapture, s.path, err)
	}
	return core.RawPacket{
		Data:           data,
		Timestamp:      ci.Timestamp,
		CaptureLen:     uint32(ci.CaptureLength),
		OrigLen:        uint32(ci.Length),
		InterfaceIndex: ci.InterfaceIndex,
	}, nil
}

func (s *Source) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	s.reader = nil
	return err
}
