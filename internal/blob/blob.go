// Package blob loads a file and prepares it for embedding.
package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/xll-gen/webtoc/internal/codec"
)

// Blob is a file's contents together with the encoded form that gets embedded.
type Blob struct {
	// SourcePath is the path the blob was read from.
	SourcePath string
	// Name is the declared name: base name with the final extension removed.
	Name string
	// Raw holds the file contents as read.
	Raw []byte
	// Encoded holds the bytes to embed.
	Encoded []byte
	// Codec is the name of the encoder that produced Encoded.
	Codec string
	// Digest is the sha256 digest of Raw.
	Digest digest.Digest
}

// ReadError reports a failure to open or read the input file.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Name derives the declared name of path: directories and the final
// extension are stripped, so "a/b.c.d" becomes "b.c". Leading dots never
// start an extension.
func Name(path string) string {
	base := filepath.Base(path)
	lead := len(base) - len(strings.TrimLeft(base, "."))
	if i := strings.LastIndexByte(base[lead:], '.'); i > 0 {
		return base[:lead+i]
	}
	return base
}

// Load reads path and encodes its contents with enc.
func Load(path string, enc codec.Encoder) (*Blob, error) {
	raw, err := readFile(path)
	if err != nil {
		return nil, err
	}

	encoded, err := enc.Encode(raw)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", path, err)
	}

	return &Blob{
		SourcePath: path,
		Name:       Name(path),
		Raw:        raw,
		Encoded:    encoded,
		Codec:      enc.Name(),
		Digest:     digest.FromBytes(raw),
	}, nil
}

// readFile reads the whole file and closes it before returning.
func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	data, err := io.ReadAll(f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return data, nil
}
