package collision

import (
	"fmt"
	"strings"

	"github.com/arloliu/autofmu/errs"
	"github.com/arloliu/autofmu/internal/hash"
)

// Tracker records archive paths and detects collisions before entries are written.
//
// Two paths collide when they are equal, or when they differ only by letter case:
// such entries would overwrite each other when the archive is extracted on a
// case-insensitive filesystem (Windows, default macOS volumes).
type Tracker struct {
	paths     map[uint64]string // folded-path hash → first path seen
	pathsList []string          // tracking order
}

// NewTracker creates a new collision tracker.
func NewTracker() *Tracker {
	return &Tracker{
		paths:     make(map[uint64]string),
		pathsList: make([]string, 0),
	}
}

// Track records path. It returns an error wrapping errs.ErrPathCollision if path
// collides with a previously tracked path, and errs.ErrInvalidPath if path is empty.
func (t *Tracker) Track(path string) error {
	if path == "" {
		return errs.ErrInvalidPath
	}

	id := hash.ID(strings.ToLower(path))
	if existing, ok := t.paths[id]; ok && strings.EqualFold(existing, path) {
		if existing == path {
			return fmt.Errorf("%w: %q", errs.ErrPathCollision, path)
		}

		return fmt.Errorf("%w: %q and %q differ only by case", errs.ErrPathCollision, existing, path)
	}

	t.paths[id] = path
	t.pathsList = append(t.pathsList, path)

	return nil
}

// Paths returns the tracked paths in tracking order.
func (t *Tracker) Paths() []string {
	return t.pathsList
}
