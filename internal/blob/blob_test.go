package blob

import (
	"bytes"
	stdgzip "compress/gzip"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xll-gen/webtoc/internal/codec"
)

func TestName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a/b/c.bin", "c"},
		{"name", "name"},
		{"a/b.c.d", "b.c"},
		{"index.html", "index"},
		{"/abs/dir/kellycolorpicker.js", "kellycolorpicker"},
		{"dir.d/file", "file"},
		{".hidden", ".hidden"},
		{"dir/.hidden.txt", ".hidden"},
		{"trailing.", "trailing"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := Name(tt.path)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "/")
		})
	}
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestLoadRaw(t *testing.T) {
	data := []byte("<h1>hi</h1>")
	path := writeFile(t, "index.html", data)

	b, err := Load(path, codec.Raw{})
	require.NoError(t, err)

	assert.Equal(t, path, b.SourcePath)
	assert.Equal(t, "index", b.Name)
	assert.Equal(t, data, b.Raw)
	assert.Equal(t, append(append([]byte{}, data...), 0x00), b.Encoded)
	assert.Equal(t, codec.NameRaw, b.Codec)
	assert.Equal(t, digest.FromBytes(data), b.Digest)
}

func TestLoadEmptyRaw(t *testing.T) {
	path := writeFile(t, "empty.bin", nil)

	b, err := Load(path, codec.Raw{})
	require.NoError(t, err)
	assert.Empty(t, b.Raw)
	assert.Equal(t, []byte{0x00}, b.Encoded)
}

func TestLoadGzip(t *testing.T) {
	data := bytes.Repeat([]byte("color picker "), 64)
	path := writeFile(t, "picker.js", data)

	b, err := Load(path, codec.Gzip{})
	require.NoError(t, err)
	assert.Equal(t, codec.NameGzip, b.Codec)
	assert.Less(t, len(b.Encoded), len(data))

	zr, err := stdgzip.NewReader(bytes.NewReader(b.Encoded))
	require.NoError(t, err)
	got, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.html")

	b, err := Load(path, codec.Raw{})
	require.Error(t, err)
	assert.Nil(t, b)

	var rerr *ReadError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, path, rerr.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "read "+path)
}

func TestLoadDirectory(t *testing.T) {
	_, err := Load(t.TempDir(), codec.Raw{})
	require.Error(t, err)

	var rerr *ReadError
	assert.True(t, errors.As(err, &rerr))
}

type failingEncoder struct{}

func (failingEncoder) Name() string { return "failing" }

func (failingEncoder) Encode([]byte) ([]byte, error) {
	return nil, errors.New("boom")
}

func TestLoadEncodeError(t *testing.T) {
	path := writeFile(t, "x.bin", []byte{1, 2, 3})

	_, err := Load(path, failingEncoder{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode "+path+": boom")

	var rerr *ReadError
	assert.False(t, errors.As(err, &rerr))
}
