//go:build linux

package afpacket

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/google/gopacket/afpacket"
	"github.com/vishvananda/netlink"
	"golang.org/x/net/bpf"

	"firestige.xyz/netsniff/internal/core"
	"firestige.xyz/netsniff/internal/log"
)

type Source struct {
	handle *afpacket.TPacket

	device  string
	ifindex int
}

// NewSource checks the interface is up and opens the ring on it.
func NewSource(opts Options) (*Source, error) {
	link, err := netlink.LinkByName(opts.Device)
	if err != nil {
		return nil, fmt.Errorf("%w: interface %s: %w", core.ErrCapture, opts.Device, err)
	}
	attrs := link.Attrs()
	if attrs.Flags&net.FlagUp == 0 {
		return nil, fmt.Errorf("%w: interface %s is down", core.ErrCapture, opts.Device)
	}

	frameSize, blockSize, numBlocks, err := recomputeSize(opts.BufferSizeMB, opts.SnapLen, os.Getpagesize())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrConfigInvalid, err)
	}

	tp, err := afpacket.NewTPacket(
		afpacket.OptInterface(opts.Device),
		afpacket.OptFrameSize(frameSize),
		afpacket.OptBlockSize(blockSize),
		afpacket.OptNumBlocks(numBlocks),
		afpacket.OptPollTimeout(time.Duration(opts.TimeoutMs)*time.Millisecond),
		afpacket.SocketRaw,
		afpacket.TPacketVersion3,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", core.ErrCapture, opts.Device, err)
	}

	if len(opts.Filter) > 0 {
		raw, err := bpf.Assemble(opts.Filter)
		if err != nil {
			tp.Close()
			return nil, fmt.Errorf("%w: assemble prefilter: %w", core.ErrCapture, err)
		}
		if err := tp.SetBPF(raw); err != nil {
			tp.Close()
			return nil, fmt.Errorf("%w: attach prefilter: %w", core.ErrCapture, err)
		}
	}

	log.GetLogger().WithFields(map[string]interface{}{
		"interface":  opts.Device,
		"frame_size": frameSize,
		"block_size": blockSize,
		"num_blocks": numBlocks,
		"prefilter":  len(opts.Filter) > 0,
	}).Info("afpacket source opened")

	return &Source{handle: tp, device: opts.Device, ifindex: attrs.Index}, nil
}

// ReadFrame returns the next frame. Data aliases the ring and is valid until
// the next call. Poll timeouts only serve to observe ctx.
func (s *Source) ReadFrame(ctx context.Context) (core.RawPacket, error) {
	for {
		if err := ctx.Err(); err != nil {
			return core.RawPacket{}, err
		}
		data, ci, err := s.handle.ZeroCopyReadPacketData()
		if err == nil {
			return core.RawPacket{
				Data:           data,
				Timestamp:      ci.Timestamp,
				CaptureLen:     uint32(ci.CaptureLength),
				OrigLen:        uint32(ci.Length),
				InterfaceIndex: s.ifindex,
			}, nil
		}
		if errors.Is(err, afpacket.ErrTimeout) {
			continue
		}
		return core.RawPacket{}, fmt.Errorf("%w: read %s: %w", core.ErrCapture, s.device, err)
	}
}

func (s *Source) Close() error {
	if s.handle == nil {
		return nil
	}
	if _, stats, err := s.handle.SocketStats(); err == nil {
		logger := log.GetLogger().WithFields(map[string]interface{}{
			"interface": s.device,
			"packets":   stats.Packets(),
			"drops":     stats.Drops(),
			"freezes":   stats.QueueFreezes(),
		})
		if stats.Drops() > 0 {
			logger.Warn("afpacket source closed with kernel drops")
		} else {
			logger.Info("afpacket source closed")
		}
	}
	s.handle.Close()
	s.handle = nil
	return nil
}
