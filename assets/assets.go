// Package assets embeds the static files shipped inside every generated FMU and used
// to build it: the FMI 2.0 C headers, the C source template and the CMake project.
package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
)

//go:embed sources/fmi2Functions.c.tmpl
var sourceTemplate string

//go:embed sources/headers/*.h
var headerFS embed.FS

//go:embed cmake/CMakeLists.txt
var cmakeLists []byte

// File is a static file and its path relative to the archive's sources/ directory.
type File struct {
	Path string
	Data []byte
}

// SourceTemplate returns the text/template source of the generated C file.
func SourceTemplate() string {
	return sourceTemplate
}

// Headers returns the FMI 2.0 headers as headers/<name>.h, sorted by path.
// Each call returns fresh copies.
func Headers() []File {
	entries, err := fs.Glob(headerFS, "sources/headers/*.h")
	if err != nil {
		panic(err) // the pattern is constant
	}
	sort.Strings(entries)

	files := make([]File, 0, len(entries))
	for _, name := range entries {
		data, err := headerFS.ReadFile(name)
		if err != nil {
			panic(err)
		}
		files = append(files, File{Path: path.Join("headers", path.Base(name)), Data: data})
	}

	return files
}

// CMakeLists returns the CMake project that compiles sources/<id>.c into a shared
// library named after the FMU_MODEL_IDENTIFIER cache variable.
func CMakeLists() []byte {
	return append([]byte(nil), cmakeLists...)
}
