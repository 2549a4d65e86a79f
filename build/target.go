package build

import (
	"fmt"
	"strings"

	"github.com/arloliu/autofmu/errs"
)

// Target is a cross-compilation request: a platform tag and the C compiler that
// produces binaries for it, as a command name resolved on PATH or an absolute path.
type Target struct {
	Platform  string
	Toolchain string
}

func (t Target) String() string {
	return t.Platform + "=" + t.Toolchain
}

// ParseTarget parses "PLATFORM=TOOLCHAIN", for example "win64=x86_64-w64-mingw32-gcc".
func ParseTarget(s string) (Target, error) {
	tag, compiler, ok := strings.Cut(strings.TrimSpace(s), "=")
	tag = strings.TrimSpace(tag)
	compiler = strings.TrimSpace(compiler)
	if !ok || tag == "" || compiler == "" {
		return Target{}, fmt.Errorf("%w: %q, expected PLATFORM=TOOLCHAIN", errs.ErrInvalidTarget, s)
	}
	if _, ok := platforms[tag]; !ok {
		return Target{}, fmt.Errorf("%w: unknown platform %q (known: %v)", errs.ErrInvalidTarget, tag, PlatformTags())
	}

	return Target{Platform: tag, Toolchain: compiler}, nil
}

// ParseTargets parses every element of specs.
func ParseTargets(specs []string) ([]Target, error) {
	targets := make([]Target, 0, len(specs))
	for _, s := range specs {
		t, err := ParseTarget(s)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}

	return targets, nil
}
