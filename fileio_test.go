package rjson_test

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaxed-json/rjson"
)

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{a:1}`), 0o644))

	got, err := rjson.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{a:1}`, string(got))
}

func TestReadFileAutoGunzips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json.gz")

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte(`{a:1}`))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	got, err := rjson.ReadFileAuto(path)
	require.NoError(t, err)
	assert.Equal(t, `{a:1}`, string(got))
}

func TestReadFileAutoPassesThroughPlain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{a:1}`), 0o644))

	got, err := rjson.ReadFileAuto(path)
	require.NoError(t, err)
	assert.Equal(t, `{a:1}`, string(got))
}

func TestWriteFilePrintf(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	require.NoError(t, rjson.WriteFilePrintf(path, 0o644, "{a: %d}", rjson.Int(7)))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\": 7}\n", string(got))
}

func TestPrettifyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{a:1,b:[1,2]}`), 0o644))

	require.NoError(t, rjson.PrettifyFile(path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": [\n    1,\n    2\n  ]\n}", string(got))
}

func TestPrettifyFileInvalidReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{a:.1}`), 0o644))

	err := rjson.PrettifyFile(path)
	assert.Error(t, err)
}

func TestPrettifyFilesBatch(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 3; i++ {
		p := filepath.Join(dir, "f.json")
		p = p[:len(p)-5] + string(rune('0'+i)) + ".json"
		require.NoError(t, os.WriteFile(p, []byte(`{a:1}`), 0o644))
		paths = append(paths, p)
	}

	require.NoError(t, rjson.PrettifyFiles(paths))

	for _, p := range paths {
		got, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"a\": 1\n}", string(got))
	}
}
