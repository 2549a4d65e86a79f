package autofmu

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arloliu/autofmu/archive"
	"github.com/arloliu/autofmu/errs"
	"github.com/arloliu/autofmu/modeldesc"
)

// EntryInfo describes one archive entry.
type EntryInfo struct {
	Path string
	Size int
}

// Summary describes an existing FMU archive.
type Summary struct {
	ModelName       string
	ModelIdentifier string
	GUID            string
	GenerationTool  string
	GeneratedAt     string
	Inputs          []string
	Outputs         []string
	// Platforms lists the binaries/ subdirectories holding a library, sorted.
	Platforms []string
	Entries   []EntryInfo
	Digest    uint64
	// Problems lists model description rule violations; empty for a valid archive.
	Problems []string
}

// Inspect reads the FMU archive at path and summarizes it.
func Inspect(path string) (*Summary, error) {
	art, err := archive.Read(path)
	if err != nil {
		return nil, err
	}

	return InspectArtifact(art)
}

// InspectArtifact summarizes art. An archive without a parsable model description is
// an error; a parsable but invalid one is reported through Summary.Problems.
func InspectArtifact(art *archive.Artifact) (*Summary, error) {
	data, ok := art.Lookup(modeldesc.FileName)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", errs.ErrSchema, modeldesc.FileName)
	}
	doc, err := modeldesc.Unmarshal(data)
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		ModelName:       doc.ModelName,
		ModelIdentifier: doc.ModelIdentifier(),
		GUID:            doc.GUID,
		GenerationTool:  doc.GenerationTool,
		GeneratedAt:     doc.GenerationDateAndTime,
		Inputs:          doc.Names("input"),
		Outputs:         doc.Names("output"),
		Digest:          art.Digest(),
	}

	platforms := make(map[string]struct{})
	for _, e := range art.Entries() {
		sum.Entries = append(sum.Entries, EntryInfo{Path: e.Path, Size: len(e.Data)})
		if rest, ok := strings.CutPrefix(e.Path, "binaries/"); ok {
			if tag, _, ok := strings.Cut(rest, "/"); ok {
				platforms[tag] = struct{}{}
			}
		}
	}
	for tag := range platforms {
		sum.Platforms = append(sum.Platforms, tag)
	}
	sort.Strings(sum.Platforms)

	if err := doc.Validate(); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				sum.Problems = append(sum.Problems, line)
			}
		}
	}

	return sum, nil
}
