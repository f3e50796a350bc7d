//go:build !linux

package afpacket

import (
	"context"

	"firestige.xyz/netsniff/internal/core"
)

type Source struct{}

func NewSource(Options) (*Source, error) {
	return nil, core.ErrUnsupportedPlatform
}

func (s *Source) ReadFrame(context.Context) (core.RawPacket, error) {
	return core.RawPacket{}, core.ErrUnsupportedPlatform
}

func (s *Source) Close() error { return nil }
