// Package bundle locates the XBRL instance document inside a TDnet filing
// archive.
//
// A filing ZIP typically looks like:
//
//	XBRLData/Summary/    *-ixbrl.htm   ← earnings summary (first page)
//	XBRLData/Attachment/ *-ixbrl.htm   ← statements (B/S, P/L, C/F)
//	                     *-def.xml, *-pre.xml, *-cal.xml, *-lab.xml
//
// The side files never match the instance extensions, and within a
// category the largest file is the full statement rather than a fragment.
package bundle

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrNoInstanceDocument means the archive holds nothing parseable as an
// instance document.
var ErrNoInstanceDocument = eris.New("bundle: no instance document in archive")

// Document is one archive entry read into memory.
type Document struct {
	Name string
	Data []byte
}

// FilingBundle wraps an opened filing archive.
type FilingBundle struct {
	zr      *zip.Reader
	closeFn func() error
}

// Open opens a filing archive from disk.
func Open(path string) (*FilingBundle, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, eris.Wrapf(err, "bundle: open %s", path)
	}
	return &FilingBundle{zr: &rc.Reader, closeFn: rc.Close}, nil
}

// OpenBytes opens a filing archive already held in memory, e.g. straight
// from a download.
func OpenBytes(data []byte) (*FilingBundle, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, eris.Wrap(err, "bundle: open archive bytes")
	}
	return &FilingBundle{zr: zr}, nil
}

// Close releases the underlying file, if any.
func (b *FilingBundle) Close() error {
	if b.closeFn == nil {
		return nil
	}
	return b.closeFn()
}

// Locate picks the instance document: the largest Summary inline file,
// else the largest Attachment (or unmarked) inline file, else the largest
// .xbrl instance. Directory entries never participate.
func (b *FilingBundle) Locate() (*Document, error) {
	var summary, attachment, instance *zip.File

	for _, f := range b.zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		lower := strings.ToLower(f.Name)

		switch {
		case strings.HasSuffix(lower, "-ixbrl.htm") || strings.HasSuffix(lower, "-ixbrl.html"):
			if strings.Contains(lower, "attachment") {
				attachment = larger(attachment, f)
			} else if strings.Contains(lower, "summary") {
				summary = larger(summary, f)
			} else {
				attachment = larger(attachment, f)
			}
		case strings.HasSuffix(lower, ".xbrl"):
			instance = larger(instance, f)
		}
	}

	for _, f := range []*zip.File{summary, attachment, instance} {
		if f != nil {
			return readEntry(f)
		}
	}
	return nil, ErrNoInstanceDocument
}

// larger keeps the entry with the bigger uncompressed size, first one
// winning ties.
func larger(cur, f *zip.File) *zip.File {
	if cur == nil || f.UncompressedSize64 > cur.UncompressedSize64 {
		return f
	}
	return cur
}

// Extract unpacks every entry under destDir, refusing entry names that
// would escape it. Returns the extracted file paths.
func (b *FilingBundle) Extract(destDir string) ([]string, error) {
	var extracted []string
	for _, f := range b.zr.File {
		path, err := extractEntry(f, destDir)
		if err != nil {
			return extracted, err
		}
		if path != "" {
			extracted = append(extracted, path)
		}
	}
	return extracted, nil
}

// extractEntry writes a single entry to destDir. Directories yield an empty
// path.
func extractEntry(f *zip.File, destDir string) (string, error) {
	// Sanitize against zip slip
	destPath := filepath.Join(destDir, f.Name)
	if !strings.HasPrefix(filepath.Clean(destPath), filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", eris.Errorf("bundle: illegal path %q (zip slip attempt)", f.Name)
	}

	if f.FileInfo().IsDir() {
		if err := os.MkdirAll(destPath, 0o755); err != nil {
			return "", eris.Wrap(err, "bundle: create directory")
		}
		return "", nil
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", eris.Wrap(err, "bundle: create parent directory")
	}

	rc, err := f.Open()
	if err != nil {
		return "", eris.Wrapf(err, "bundle: open entry %s", f.Name)
	}
	defer rc.Close() //nolint:errcheck

	out, err := os.Create(destPath)
	if err != nil {
		return "", eris.Wrap(err, "bundle: create file")
	}
	defer out.Close() //nolint:errcheck

	if _, err := io.Copy(out, rc); err != nil {
		return "", eris.Wrap(err, "bundle: write file")
	}

	return destPath, nil
}

func readEntry(f *zip.File) (*Document, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, eris.Wrapf(err, "bundle: open entry %s", f.Name)
	}
	defer rc.Close() //nolint:errcheck

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, eris.Wrapf(err, "bundle: read entry %s", f.Name)
	}
	return &Document{Name: f.Name, Data: data}, nil
}
