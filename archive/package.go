package archive

import (
	"fmt"

	"github.com/arloliu/autofmu/assets"
	"github.com/arloliu/autofmu/internal/collision"
	"github.com/arloliu/autofmu/modeldesc"
)

// SourcesDir is the archive directory holding the C sources and headers.
const SourcesDir = "sources"

// Asset is a static file placed under SourcesDir.
type Asset = assets.File

// Package builds the artifact of a generated model.
//
// Parameters:
//   - desc: The model description, written as modelDescription.xml
//   - source: The generated C source
//   - sourceName: File name of the source under sources/; empty means desc.Info().SourceFile()
//   - staticAssets: Files copied unchanged under sources/, in order
//   - opts: Artifact options; the modification time defaults to the description's generation time
//
// Returns:
//   - *Artifact: An artifact with exactly len(staticAssets)+2 entries
//   - error: errs.ErrPathCollision (a packaging error) if any two paths collide
func Package(desc *modeldesc.Descriptor, source []byte, sourceName string, staticAssets []Asset, opts ...Option) (*Artifact, error) {
	if sourceName == "" {
		sourceName = desc.Info().SourceFile()
	}

	paths := make([]string, 0, len(staticAssets)+2)
	paths = append(paths, modeldesc.FileName)
	for _, asset := range staticAssets {
		paths = append(paths, SourcesDir+"/"+asset.Path)
	}
	paths = append(paths, SourcesDir+"/"+sourceName)

	// Reject collisions before anything is serialized.
	tracker := collision.NewTracker()
	for _, p := range paths {
		if err := CheckPath(p); err != nil {
			return nil, err
		}
		if err := tracker.Track(p); err != nil {
			return nil, err
		}
	}

	xmlData, err := modeldesc.Marshal(desc)
	if err != nil {
		return nil, err
	}

	allOpts := append([]Option{WithModTime(desc.Info().GeneratedAt)}, opts...)
	art, err := New(allOpts...)
	if err != nil {
		return nil, err
	}

	contents := make([][]byte, 0, len(paths))
	contents = append(contents, xmlData)
	for _, asset := range staticAssets {
		contents = append(contents, asset.Data)
	}
	contents = append(contents, source)

	for i, p := range tracker.Paths() {
		if err := art.Add(p, contents[i]); err != nil {
			return nil, fmt.Errorf("package %s: %w", p, err)
		}
	}

	return art, nil
}
