package build

import (
	"fmt"
	"runtime"
	"sort"

	"github.com/arloliu/autofmu/errs"
)

// Platform describes a binary target of an FMU.
type Platform struct {
	Tag    string // Tag is the directory name below binaries/, e.g. "linux64".
	System string // System is the CMAKE_SYSTEM_NAME value.
	Ext    string // Ext is the shared library extension including the dot.
}

// BinaryPath returns the archive path of the library built for modelIdentifier.
func (p Platform) BinaryPath(modelIdentifier string) string {
	return "binaries/" + p.Tag + "/" + modelIdentifier + p.Ext
}

var platforms = map[string]Platform{
	"linux32":  {Tag: "linux32", System: "Linux", Ext: ".so"},
	"linux64":  {Tag: "linux64", System: "Linux", Ext: ".so"},
	"win32":    {Tag: "win32", System: "Windows", Ext: ".dll"},
	"win64":    {Tag: "win64", System: "Windows", Ext: ".dll"},
	"darwin64": {Tag: "darwin64", System: "Darwin", Ext: ".dylib"},
}

// LookupPlatform returns the platform named by tag.
func LookupPlatform(tag string) (Platform, error) {
	p, ok := platforms[tag]
	if !ok {
		return Platform{}, fmt.Errorf("%w: %q (known: %v)", errs.ErrUnknownPlatform, tag, PlatformTags())
	}

	return p, nil
}

// PlatformTags returns the known platform tags, sorted.
func PlatformTags() []string {
	tags := make([]string, 0, len(platforms))
	for tag := range platforms {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	return tags
}

// HostPlatform returns the platform of the running process, derived from the
// operating system and the pointer width.
func HostPlatform() (Platform, error) {
	return platformFor(runtime.GOOS, 32<<(^uintptr(0)>>63))
}

func platformFor(goos string, bits int) (Platform, error) {
	var prefix string
	switch goos {
	case "linux":
		prefix = "linux"
	case "windows":
		prefix = "win"
	case "darwin":
		prefix = "darwin"
	default:
		return Platform{}, fmt.Errorf("%w: GOOS %s", errs.ErrUnknownPlatform, goos)
	}

	return LookupPlatform(fmt.Sprintf("%s%d", prefix, bits))
}
