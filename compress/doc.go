// Package compress provides the compression codecs used by autofmu.
//
// Codecs serve two places in the pipeline:
//
//  1. **Datasets**: CSV files may be stored compressed. The dataset loader picks a codec
//     from the file extension (FromExtension) and streams the file through NewReader.
//  2. **Archives**: FMU zip entries are written with a configurable method. RegisterZip and
//     RegisterUnzip install the matching klauspost compressors on a zip writer or reader.
//
// # Supported Algorithms
//
//	Type     | Extension     | Zip method     | Library
//	---------|---------------|----------------|--------------------------------
//	None     | (none)        | 0 (Store)      | -
//	Deflate  | -             | 8 (Deflate)    | github.com/klauspost/compress/flate
//	Gzip     | .gz           | -              | github.com/klauspost/compress/gzip
//	Zstd     | .zst, .zstd   | 93 (WinZip)    | github.com/klauspost/compress/zstd
//	S2       | .s2, .sz      | -              | github.com/klauspost/compress/s2
//	LZ4      | .lz4          | -              | github.com/pierrec/lz4/v4
//
// FMI importers are only required to read Store and Deflate entries, so Deflate is the
// archive default; Zstd entries are meant for internal caching and transport.
//
// # Architecture
//
// The byte-slice interfaces mirror each other:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
// Formats are the self-describing stream/frame variants of each algorithm (gzip member,
// zstd frame, S2 stream, LZ4 frame), so files produced by the standard command-line tools
// decompress with these codecs and vice versa.
//
// # Thread Safety
//
// All codec implementations are safe for concurrent use. Zstd and LZ4 encoders are pooled.
package compress
