// Package source provides the frame sources feeding the capture loop.
package source

import (
	"context"
	"fmt"

	"firestige.xyz/netsniff/internal/config"
	"firestige.xyz/netsniff/internal/core"
	"firestige.xyz/netsniff/internal/filter"
	"firestige.xyz/netsniff/internal/source/afpacket"
	"firestige.xyz/netsniff/internal/source/file"
)

// Source yields raw link-layer frames one at a time.
//
// ReadFrame blocks until a frame is available or ctx is done. The returned
// Data may be reused by the next call. A finite source returns io.EOF once
// exhausted; any other error ends the run.
type Source interface {
	ReadFrame(ctx context.Context) (core.RawPacket, error)
	Close() error
}

// Open returns the configured source: pcap file replay when PcapFile is set,
// otherwise a live capture on Interface. With KernelFilter enabled the live
// capture drops uninteresting frames in the kernel.
func Open(cfg config.CaptureConfig, mode filter.Mode) (Source, error) {
	if cfg.PcapFile != "" {
		s, err := file.NewSource(cfg.PcapFile)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	if cfg.Interface == "" {
		return nil, fmt.Errorf("%w: capture.interface or capture.pcap_file is required", core.ErrConfigInvalid)
	}

	opts := afpacket.Options{
		Device:       cfg.Interface,
		SnapLen:      cfg.SnapLen,
		BufferSizeMB: cfg.BufferSizeMB,
		TimeoutMs:    cfg.TimeoutMs,
	}
	if cfg.KernelFilter {
		prog, err := Prefilter(mode, uint32(cfg.SnapLen))
		if err != nil {
			return nil, err
		}
		opts.Filter = prog
	}

	s, err := afpacket.NewSource(opts)
	if err != nil {
		return nil, err
	}
	return s, nil
}
