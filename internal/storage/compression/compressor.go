// Package compression frames stored values with a one-byte codec header so
// compressed and raw values can live side by side.
package compression

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Codec is the header byte of a framed value.
type Codec byte

const (
	CodecNone Codec = 0
	CodecLZ4  Codec = 1
)

var (
	// ErrCorrupt is returned when a framed value cannot be decoded.
	ErrCorrupt = errors.New("corrupt compressed value")
)

// Compressor defines the interface for compression algorithms.
type Compressor interface {
	// Name returns the name of the compression algorithm.
	Name() string

	// Codec is the header byte written in front of values it produced.
	Codec() Codec

	// Compress returns nil when the data does not shrink.
	Compress(data []byte) ([]byte, error)

	// Decompress expands data into exactly size bytes.
	Decompress(data []byte, size int) ([]byte, error)
}

// Factory is a function that creates a new compressor instance.
type Factory func() Compressor

var (
	mu          sync.RWMutex
	compressors = make(map[string]Factory)
	byCodec     = make(map[Codec]Factory)
)

// Register registers a compressor factory with the given name.
func Register(name string, codec Codec, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	compressors[name] = factory
	byCodec[codec] = factory
}

// Get returns a new compressor instance for the given name.
func Get(name string) (Compressor, error) {
	mu.RLock()
	factory, ok := compressors[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown compressor: %s", name)
	}
	return factory(), nil
}

// Available returns the registered compressor names, sorted.
func Available() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(compressors))
	for name := range compressors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register("none", CodecNone, func() Compressor { return NoCompressor{} })
	Register("lz4", CodecLZ4, func() Compressor { return LZ4Compressor{} })
}

// Encode frames data as [codec][uvarint raw length][payload]. Values that
// do not shrink are stored raw.
func Encode(c Compressor, data []byte) ([]byte, error) {
	payload, err := c.Compress(data)
	if err != nil {
		return nil, err
	}
	codec := c.Codec()
	if payload == nil || len(payload) >= len(data) {
		payload, codec = data, CodecNone
	}

	out := make([]byte, 1+binary.MaxVarintLen64+len(payload))
	out[0] = byte(codec)
	n := binary.PutUvarint(out[1:], uint64(len(data)))
	n += copy(out[1+n:], payload)
	return out[:1+n], nil
}

// Decode reverses Encode whatever compressor produced the value.
func Decode(framed []byte) ([]byte, error) {
	if len(framed) == 0 {
		return nil, ErrCorrupt
	}
	size, n := binary.Uvarint(framed[1:])
	if n <= 0 {
		return nil, ErrCorrupt
	}
	payload := framed[1+n:]

	codec := Codec(framed[0])
	mu.RLock()
	factory, ok := byCodec[codec]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("codec %d: %w", codec, ErrCorrupt)
	}
	return factory().Decompress(payload, int(size))
}
