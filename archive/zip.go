package archive

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"

	"github.com/arloliu/autofmu/compress"
	"github.com/arloliu/autofmu/errs"
	"github.com/arloliu/autofmu/format"
)

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)

	return n, err
}

// WriteTo writes the artifact as a zip archive to w. It implements io.WriterTo.
func (a *Artifact) WriteTo(w io.Writer) (int64, error) {
	method, err := compress.ZipMethod(a.cfg.compression)
	if err != nil {
		return 0, err
	}

	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)
	compress.RegisterZip(zw)

	for _, e := range a.entries {
		hdr := &zip.FileHeader{
			Name:     e.Path,
			Method:   method,
			Modified: a.cfg.modTime,
		}
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return cw.n, fmt.Errorf("%w: %s: %w", errs.ErrPackaging, e.Path, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			return cw.n, fmt.Errorf("%w: %s: %w", errs.ErrPackaging, e.Path, err)
		}
	}

	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("%w: %w", errs.ErrPackaging, err)
	}

	return cw.n, nil
}

// Bytes returns the encoded archive.
func (a *Artifact) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := a.WriteTo(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// WriteFile stores the archive at path atomically. The archive is written to a
// temporary file in the same directory and renamed into place, so path either keeps its
// previous content or holds the complete archive.
func (a *Artifact) WriteFile(path string) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrPackaging, err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = a.WriteTo(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrPackaging, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrPackaging, err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrPackaging, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrPackaging, err)
	}

	return nil
}

// Extract writes every entry below dir, creating intermediate directories.
func (a *Artifact) Extract(dir string) error {
	for _, e := range a.entries {
		target := filepath.Join(dir, filepath.FromSlash(e.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrPackaging, err)
		}
		if err := os.WriteFile(target, e.Data, 0o644); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrPackaging, err)
		}
	}

	return nil
}

// Read loads the archive stored at path.
func Read(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrPackaging, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrPackaging, err)
	}

	return ReadFrom(f, info.Size())
}

// ReadFrom loads an archive of size bytes from r. Directory entries are skipped; the
// compression and modification time of the first file entry become the artifact's
// settings.
func ReadFrom(r io.ReaderAt, size int64) (*Artifact, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrPackaging, err)
	}
	compress.RegisterUnzip(zr)

	art, err := New()
	if err != nil {
		return nil, err
	}

	first := true
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if first {
			art.cfg.compression = compressionOf(f.Method)
			art.cfg.modTime = f.Modified
			first = false
		}

		data, err := readEntry(f)
		if err != nil {
			return nil, err
		}
		if err := art.Add(f.Name, data); err != nil {
			return nil, err
		}
	}

	return art, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrPackaging, f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrPackaging, f.Name, err)
	}

	return data, nil
}

func compressionOf(method uint16) format.CompressionType {
	switch method {
	case zip.Store:
		return format.CompressionNone
	case compress.ZipMethodZstd:
		return format.CompressionZstd
	default:
		return format.CompressionDeflate
	}
}
