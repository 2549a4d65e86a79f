// Package archive assembles FMU archives.
//
// An Artifact is an ordered, write-once set of archive entries. Package creates the
// artifact of a freshly generated model in a fixed order:
//
//	modelDescription.xml
//	sources/headers/*.h        (static assets, in the given order)
//	sources/<identifier>.c     (generated source)
//
// The build orchestrator later adds binaries/<platform>/<identifier><ext> entries, and
// WriteFile stores the result atomically.
//
// # Reproducibility
//
// Entries are written in insertion order, every entry carries the same modification
// time (the model's generation time) and compression is deterministic, so identical
// inputs produce identical archive bytes. Digest summarizes the entry contents with
// xxHash64 for quick comparisons.
//
// # Compression
//
// Entries are deflated by default, the method every FMI importer supports. Store and
// Zstandard (zip method 93) can be selected with WithCompression.
package archive
