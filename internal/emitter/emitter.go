// Package emitter renders bytes as a C array-literal declaration.
package emitter

import (
	"bufio"
	"bytes"
	"io"
)

const (
	// DefaultPrefix is prepended to the declared name of every array.
	DefaultPrefix = "web_file_"
	// DefaultWidth is the number of values per line.
	DefaultWidth = 16
)

const hexDigits = "0123456789abcdef"

// Options controls the shape of the emitted declaration.
type Options struct {
	// Prefix is prepended to the array name.
	Prefix string
	// Width is the number of values per line. Values <= 0 select DefaultWidth.
	Width int
}

// Emitter writes array declarations.
type Emitter struct {
	prefix string
	width  int
}

// New returns an Emitter for opts.
func New(opts Options) *Emitter {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	return &Emitter{prefix: opts.Prefix, width: width}
}

// Write emits
//
//	static const char <prefix><name>[] = {
//	0x00,0x01,...
//	};
//
// followed by a blank line. Every value is "0x", two lowercase hex digits and
// a comma, and each line holds at most Width values.
func (e *Emitter) Write(w io.Writer, name string, data []byte) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("static const char ")
	bw.WriteString(e.prefix)
	bw.WriteString(name)
	bw.WriteString("[] = {\n")

	var lit [5]byte
	lit[0], lit[1], lit[4] = '0', 'x', ','
	for i, c := range data {
		lit[2] = hexDigits[c>>4]
		lit[3] = hexDigits[c&0x0f]
		bw.Write(lit[:])
		if (i+1)%e.width == 0 || i == len(data)-1 {
			bw.WriteByte('\n')
		}
	}

	bw.WriteString("};\n\n")
	return bw.Flush()
}

// Render returns the declaration Write would emit.
func (e *Emitter) Render(name string, data []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(data)*5 + len(data)/e.width + len(e.prefix) + len(name) + 40)
	// bytes.Buffer writes never fail.
	_ = e.Write(&buf, name, data)
	return buf.Bytes()
}
