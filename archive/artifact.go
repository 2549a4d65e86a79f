package archive

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/arloliu/autofmu/compress"
	"github.com/arloliu/autofmu/errs"
	"github.com/arloliu/autofmu/format"
	"github.com/arloliu/autofmu/internal/collision"
	"github.com/arloliu/autofmu/internal/hash"
	"github.com/arloliu/autofmu/internal/options"
)

// Entry is one archive member.
type Entry struct {
	Path string
	Data []byte
}

type config struct {
	compression format.CompressionType
	modTime     time.Time
}

// Option configures an Artifact.
type Option = options.Option[*config]

// WithCompression selects the zip method of every entry: CompressionNone (Store),
// CompressionDeflate (default) or CompressionZstd.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(cfg *config) error {
		if _, err := compress.ZipMethod(ct); err != nil {
			return err
		}
		cfg.compression = ct

		return nil
	})
}

// WithModTime sets the modification time recorded for every entry.
func WithModTime(t time.Time) Option {
	return options.NoError(func(cfg *config) {
		cfg.modTime = t
	})
}

// Artifact is an FMU archive under construction.
//
// Entries can be added but never replaced or removed. An Artifact is not safe for
// concurrent use.
type Artifact struct {
	cfg     config
	entries []Entry
	index   map[string]int
	paths   *collision.Tracker
}

// New creates an empty Artifact.
func New(opts ...Option) (*Artifact, error) {
	cfg := config{compression: format.CompressionDeflate}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	return &Artifact{
		cfg:   cfg,
		index: make(map[string]int),
		paths: collision.NewTracker(),
	}, nil
}

// Compression returns the zip method used for the entries.
func (a *Artifact) Compression() format.CompressionType { return a.cfg.compression }

// ModTime returns the modification time recorded for the entries.
func (a *Artifact) ModTime() time.Time { return a.cfg.modTime }

// CheckPath reports whether p is acceptable as an archive path: non-empty, relative,
// slash-separated and already in clean form with no ".." elements.
func CheckPath(p string) error {
	switch {
	case p == "":
		return fmt.Errorf("%w: empty path", errs.ErrInvalidPath)
	case strings.Contains(p, `\`):
		return fmt.Errorf("%w: %q contains a backslash", errs.ErrInvalidPath, p)
	case strings.HasPrefix(p, "/"):
		return fmt.Errorf("%w: %q is absolute", errs.ErrInvalidPath, p)
	case path.Clean(p) != p || p == "." || p == ".." || strings.HasPrefix(p, "../"):
		return fmt.Errorf("%w: %q is not a clean relative path", errs.ErrInvalidPath, p)
	}

	return nil
}

// Add appends an entry. data is not copied and must not be modified afterwards.
//
// Returns:
//   - errs.ErrInvalidPath: p is not a clean relative path
//   - errs.ErrEntryExists: an entry with path p already exists
//   - errs.ErrPathCollision: p differs from an existing path only by case
func (a *Artifact) Add(p string, data []byte) error {
	if err := CheckPath(p); err != nil {
		return err
	}
	if _, ok := a.index[p]; ok {
		return fmt.Errorf("%w: %q", errs.ErrEntryExists, p)
	}
	if err := a.paths.Track(p); err != nil {
		return err
	}

	a.index[p] = len(a.entries)
	a.entries = append(a.entries, Entry{Path: p, Data: data})

	return nil
}

// Entries returns the entries in insertion order. The returned slice is a copy; the
// data it references is shared and must not be modified.
func (a *Artifact) Entries() []Entry {
	return append([]Entry(nil), a.entries...)
}

// Lookup returns the content of the entry at p.
func (a *Artifact) Lookup(p string) ([]byte, bool) {
	i, ok := a.index[p]
	if !ok {
		return nil, false
	}

	return a.entries[i].Data, true
}

// Len returns the number of entries.
func (a *Artifact) Len() int { return len(a.entries) }

// Digest returns an xxHash64 over the ordered entry paths and contents. It does not
// depend on compression or timestamps.
func (a *Artifact) Digest() uint64 {
	d := hash.NewDigest()
	for _, e := range a.entries {
		d.Add(e.Path, e.Data)
	}

	return d.Sum64()
}
