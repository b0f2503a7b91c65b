package bundle

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeZip builds an archive in memory; entries ending in "/" become
// directories.
func makeZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		if strings.HasSuffix(name, "/") {
			_, err := w.Create(name)
			require.NoError(t, err)
			continue
		}
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestLocate_SummaryBeatsLargerAttachment(t *testing.T) {
	data := makeZip(t, map[string]string{
		"XBRLData/Summary/tse-acedjpsm-62820-20260512-ixbrl.htm":  strings.Repeat("s", 800),
		"XBRLData/Attachment/0101010-acbs01-ixbrl.htm":            strings.Repeat("a", 50000),
		"XBRLData/Attachment/tse-acedjpfr-62820-20260512-def.xml": strings.Repeat("d", 90000),
	})

	b, err := OpenBytes(data)
	require.NoError(t, err)
	doc, err := b.Locate()
	require.NoError(t, err)
	assert.Equal(t, "XBRLData/Summary/tse-acedjpsm-62820-20260512-ixbrl.htm", doc.Name)
	assert.Len(t, doc.Data, 800)
}

func TestLocate_LargestWithinCategory(t *testing.T) {
	data := makeZip(t, map[string]string{
		"XBRLData/Attachment/0101010-acbs01-ixbrl.htm": strings.Repeat("x", 300),
		"XBRLData/Attachment/0105020-accf03-ixbrl.htm": strings.Repeat("y", 900),
		"XBRLData/Attachment/manifest.xml":             "<manifest/>",
	})

	b, err := OpenBytes(data)
	require.NoError(t, err)
	doc, err := b.Locate()
	require.NoError(t, err)
	assert.Equal(t, "XBRLData/Attachment/0105020-accf03-ixbrl.htm", doc.Name)
}

func TestLocate_UnmarkedInlineCountsAsAttachment(t *testing.T) {
	data := makeZip(t, map[string]string{
		"report-ixbrl.htm": strings.Repeat("r", 400),
	})

	b, err := OpenBytes(data)
	require.NoError(t, err)
	doc, err := b.Locate()
	require.NoError(t, err)
	assert.Equal(t, "report-ixbrl.htm", doc.Name)
}

func TestLocate_InstanceFallback(t *testing.T) {
	data := makeZip(t, map[string]string{
		"XBRLData/Attachment/tse-acedjpfr-62820.xbrl": strings.Repeat("i", 600),
		"XBRLData/Attachment/tse-small.xbrl":          strings.Repeat("i", 100),
		"XBRLData/Attachment/tse-acedjpfr-lab.xml":    strings.Repeat("l", 5000),
	})

	b, err := OpenBytes(data)
	require.NoError(t, err)
	doc, err := b.Locate()
	require.NoError(t, err)
	assert.Equal(t, "XBRLData/Attachment/tse-acedjpfr-62820.xbrl", doc.Name)
}

func TestLocate_SkipsDirectoryEntries(t *testing.T) {
	data := makeZip(t, map[string]string{
		"XBRLData/Summary/":         "",
		"XBRLData/Summary/0.xbrl":   "payload",
		"XBRLData/other-ixbrl.htm/": "",
	})

	b, err := OpenBytes(data)
	require.NoError(t, err)
	doc, err := b.Locate()
	require.NoError(t, err)
	assert.Equal(t, "XBRLData/Summary/0.xbrl", doc.Name)
	assert.Equal(t, []byte("payload"), doc.Data)
}

func TestLocate_NothingUsable(t *testing.T) {
	data := makeZip(t, map[string]string{
		"XBRLData/Attachment/tse-def.xml": "<def/>",
		"readme.txt":                      "hello",
	})

	b, err := OpenBytes(data)
	require.NoError(t, err)
	_, err = b.Locate()
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNoInstanceDocument))
}

func TestOpen_FromDisk(t *testing.T) {
	data := makeZip(t, map[string]string{
		"XBRLData/Summary/tse-sm-ixbrl.htm": "<html></html>",
	})
	path := filepath.Join(t.TempDir(), "filing.zip")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	b, err := Open(path)
	require.NoError(t, err)
	defer b.Close() //nolint:errcheck

	doc, err := b.Locate()
	require.NoError(t, err)
	assert.Equal(t, "XBRLData/Summary/tse-sm-ixbrl.htm", doc.Name)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.zip"))
	require.Error(t, err)
}

func TestExtract(t *testing.T) {
	data := makeZip(t, map[string]string{
		"XBRLData/Summary/tse-sm-ixbrl.htm": "<html>summary</html>",
		"XBRLData/Attachment/":              "",
		"XBRLData/Attachment/def.xml":       "<def/>",
	})

	b, err := OpenBytes(data)
	require.NoError(t, err)

	dest := t.TempDir()
	paths, err := b.Extract(dest)
	require.NoError(t, err)
	assert.Len(t, paths, 2) // the directory entry yields no file

	got, err := os.ReadFile(filepath.Join(dest, "XBRLData", "Summary", "tse-sm-ixbrl.htm"))
	require.NoError(t, err)
	assert.Equal(t, "<html>summary</html>", string(got))

	_, err = os.Stat(filepath.Join(dest, "XBRLData", "Attachment", "def.xml"))
	require.NoError(t, err)
}

func TestExtract_RejectsZipSlip(t *testing.T) {
	data := makeZip(t, map[string]string{
		"../escape.txt": "outside",
	})

	b, err := OpenBytes(data)
	require.NoError(t, err)

	dest := t.TempDir()
	_, err = b.Extract(dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "illegal path")

	_, statErr := os.Stat(filepath.Join(filepath.Dir(dest), "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
}
