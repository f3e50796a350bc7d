package afpacket

import (
	"fmt"
)

// recomputeSize derives the TPACKET ring geometry from a memory budget and a
// snapshot length.
//
// AF_PACKET PACKET_MMAP requires:
//  1. frameSize must be a multiple of TPACKET_ALIGNMENT (16 bytes)
//  2. blockSize must be a multiple of pageSize
//  3. blockSize must be a multiple of frameSize
//  4. blockSize * numBlocks should approximate ringBufferSizeMB
func recomputeSize(ringBufferSizeMB, snapLen, pageSize int) (frameSize, blockSize, numBlocks int, err error) {
	const tpacketAlignment = 16 // TPACKET_ALIGNMENT
	const tpacketHdrLen = 52    // TPACKET3_HDRLEN (approximate)
	const maxBlockSize = 4 * 1024 * 1024

	if ringBufferSizeMB <= 0 {
		return 0, 0, 0, fmt.Errorf("ringBufferSizeMB must be positive, got %d", ringBufferSizeMB)
	}
	if snapLen <= 0 {
		return 0, 0, 0, fmt.Errorf("snapLen must be positive, got %d", snapLen)
	}
	if pageSize <= 0 || pageSize%tpacketAlignment != 0 {
		return 0, 0, 0, fmt.Errorf("pageSize must be positive and multiple of %d, got %d", tpacketAlignment, pageSize)
	}

	targetBytes := ringBufferSizeMB * 1024 * 1024

	frameSize = roundUp(tpacketHdrLen+snapLen, tpacketAlignment)
	// Frames larger than a page are page aligned so the LCM below stays small.
	if frameSize > pageSize {
		frameSize = roundUp(frameSize, pageSize)
	}

	unit := lcm(pageSize, frameSize)
	blockSize = unit
	if unit < maxBlockSize {
		blockSize = (maxBlockSize / unit) * unit
	}
	// Keep at least two blocks when the budget allows.
	for blockSize > unit && blockSize*2 > targetBytes {
		blockSize -= unit
	}

	numBlocks = targetBytes / blockSize
	if numBlocks < 1 {
		numBlocks = 1
	}
	return frameSize, blockSize, numBlocks, nil
}

func roundUp(n, align int) int {
	return ((n + align - 1) / align) * align
}

// gcd computes the greatest common divisor of two integers
func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// lcm computes the least common multiple of two integers
func lcm(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return (a * b) / gcd(a, b)
}
