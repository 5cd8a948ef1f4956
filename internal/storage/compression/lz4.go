package compression

import (
	"fmt"

	"github.com/pierrec/lz4"
)

// NoCompressor stores data unchanged.
type NoCompressor struct{}

func (NoCompressor) Name() string {
	return "none"
}

func (NoCompressor) Codec() Codec {
	return CodecNone
}

func (NoCompressor) Compress(data []byte) ([]byte, error) {
	return nil, nil
}

func (NoCompressor) Decompress(data []byte, size int) ([]byte, error) {
	if len(data) != size {
		return nil, fmt.Errorf("raw length %d, header says %d: %w", len(data), size, ErrCorrupt)
	}
	return append([]byte(nil), data...), nil
}

// LZ4Compressor implements LZ4 block compression.
type LZ4Compressor struct{}

func (LZ4Compressor) Name() string {
	return "lz4"
}

func (LZ4Compressor) Codec() Codec {
	return CodecLZ4
}

// Compress compresses data using LZ4.
func (LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}
	// Incompressible
	if n == 0 {
		return nil, nil
	}
	return compressed[:n], nil
}

// Decompress decompresses LZ4 data.
func (LZ4Compressor) Decompress(data []byte, size int) ([]byte, error) {
	out := make([]byte, size)
	n, err := lz4.UncompressBlock(data, out)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompression failed: %w", err)
	}
	if n != size {
		return nil, fmt.Errorf("lz4 produced %d bytes, want %d: %w", n, size, ErrCorrupt)
	}
	return out, nil
}
