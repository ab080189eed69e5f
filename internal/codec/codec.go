// Package codec implements the transforms applied to a file's bytes before
// they are emitted as an array literal.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const (
	// NameRaw is the pass-through encoding with a trailing NUL byte.
	NameRaw = "raw"
	// NameGzip is the gzip container encoding.
	NameGzip = "gzip"
	// NameZstd is the zstd frame encoding.
	NameZstd = "zstd"
)

// ErrUnknownCodec is returned when a codec name is not registered.
var ErrUnknownCodec = errors.New("unknown codec")

// Encoder turns raw file contents into the bytes that get embedded.
type Encoder interface {
	// Name returns the registered name of the encoder.
	Name() string
	// Encode returns a new slice; src is never modified.
	Encode(src []byte) ([]byte, error)
}

// levelRange is the inclusive range of explicit levels a codec accepts.
type levelRange struct {
	min, max int
}

var levels = map[string]levelRange{
	NameRaw:  {0, 0},
	NameGzip: {gzip.BestSpeed, gzip.BestCompression},
	NameZstd: {1, 22},
}

// Raw appends a single zero byte so the embedded data can be used as a C string.
type Raw struct{}

// Name implements Encoder.
func (Raw) Name() string { return NameRaw }

// Encode implements Encoder.
func (Raw) Encode(src []byte) ([]byte, error) {
	out := make([]byte, len(src)+1)
	copy(out, src)
	return out, nil
}

// Gzip compresses into a gzip container. The header carries no name and no
// modification time, so identical input always yields identical output.
type Gzip struct {
	// Level is the DEFLATE level, 0 selects gzip.DefaultCompression.
	Level int
}

// Name implements Encoder.
func (Gzip) Name() string { return NameGzip }

// Encode implements Encoder.
func (g Gzip) Encode(src []byte) ([]byte, error) {
	level := g.Level
	if level == 0 {
		level = gzip.DefaultCompression
	}

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	// An unset ModTime is not written as zero by this writer.
	zw.ModTime = time.Unix(0, 0)
	if _, err := zw.Write(src); err != nil {
		zw.Close()
		return nil, fmt.Errorf("gzip: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return buf.Bytes(), nil
}

// Zstd compresses into a single zstd frame.
type Zstd struct {
	// Level is the zstd level (1-22), 0 selects the encoder default.
	Level int
}

// Name implements Encoder.
func (Zstd) Name() string { return NameZstd }

// Encode implements Encoder.
func (z Zstd) Encode(src []byte) ([]byte, error) {
	opts := []zstd.EOption{
		zstd.WithEncoderConcurrency(1),
		zstd.WithLowerEncoderMem(true),
		zstd.WithZeroFrames(true),
	}
	if z.Level != 0 {
		opts = append(opts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(z.Level)))
	}

	enc, err := zstd.NewWriter(nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	defer enc.Close()

	return enc.EncodeAll(src, make([]byte, 0, len(src))), nil
}

// Lookup returns the encoder registered under name, configured with level.
func Lookup(name string, level int) (Encoder, error) {
	if err := ValidLevel(name, level); err != nil {
		return nil, err
	}
	switch strings.ToLower(name) {
	case NameRaw:
		return Raw{}, nil
	case NameGzip:
		return Gzip{Level: level}, nil
	case NameZstd:
		return Zstd{Level: level}, nil
	}
	return nil, fmt.Errorf("%w: %s (allowed: %s)", ErrUnknownCodec, name, strings.Join(Names(), ", "))
}

// ValidLevel reports whether level is acceptable for the named codec.
// Level 0 always means "codec default".
func ValidLevel(name string, level int) error {
	r, ok := levels[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("%w: %s (allowed: %s)", ErrUnknownCodec, name, strings.Join(Names(), ", "))
	}
	if level == 0 {
		return nil
	}
	if level < r.min || level > r.max {
		if r.max == 0 {
			return fmt.Errorf("codec %s does not take a level", name)
		}
		return fmt.Errorf("codec %s: level %d out of range %d-%d", name, level, r.min, r.max)
	}
	return nil
}

// Names lists the registered codec names in sorted order.
func Names() []string {
	names := make([]string, 0, len(levels))
	for k := range levels {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
