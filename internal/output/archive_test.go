package output

import (
	"archive/tar"
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readArchive(t *testing.T, data []byte) map[string]string {
	t.Helper()
	dec, err := zstd.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer dec.Close()

	files := make(map[string]string)
	tr := tar.NewReader(dec)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if header.Typeflag == tar.TypeDir {
			files[header.Name] = ""
			continue
		}
		content, err := io.ReadAll(tr)
		require.NoError(t, err)
		files[header.Name] = string(content)
	}
	return files
}

func TestWriteArchive(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/out/components/button.js", "js")
	writeFile(t, fs, "/out/components/card/index.json", "{}")

	var buf bytes.Buffer
	count, err := WriteArchive(fs, "/out", &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	files := readArchive(t, buf.Bytes())
	assert.Equal(t, "js", files["components/button.js"])
	assert.Equal(t, "{}", files["components/card/index.json"])
	assert.Contains(t, files, "components/")
	assert.Contains(t, files, "components/card/")
}

func TestWriteArchive_MissingDir(t *testing.T) {
	_, err := WriteArchive(afero.NewMemMapFs(), "/nope", io.Discard)
	assert.Error(t, err)
}

func TestWriteArchiveFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/out/a.js", "a")

	count, err := WriteArchiveFile(fs, "/out", "/archives/out.tar.zst")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	data, err := afero.ReadFile(fs, "/archives/out.tar.zst")
	require.NoError(t, err)
	assert.Equal(t, "a", readArchive(t, data)["a.js"])
}

func TestWriteArchiveFile_InsideOutput(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/out/a.js", "a")

	_, err := WriteArchiveFile(fs, "/out", "/out/out.tar.zst")
	assert.Error(t, err)
}
