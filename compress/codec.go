package compress

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/arloliu/autofmu/errs"
	"github.com/arloliu/autofmu/format"
)

// Compressor compresses a complete payload.
//
// Memory management:
//   - Returned slice is newly allocated and owned by the caller (except for the no-op codec)
//   - Input slice is not modified
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload produced by the matching Compressor, or by the
// standard command-line tool of the same format.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original result.
	//
	// Returns an error if the input is corrupted or uses a different format.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory function that creates a Codec based on the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Gzip, Zstd, S2 or LZ4)
//   - target: Description of target usage (for error messages)
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: Invalid compression type error
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionGzip:
		return NewGzipCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("%w: %s compression %s", errs.ErrInvalidCompression, target, compressionType)
	}
}

// NewReader wraps r with a streaming decompressor for compressionType.
//
// The caller must Close the returned reader; closing does not close r.
func NewReader(compressionType format.CompressionType, r io.Reader) (io.ReadCloser, error) {
	switch compressionType {
	case format.CompressionNone:
		return io.NopCloser(r), nil
	case format.CompressionGzip:
		return newGzipReader(r)
	case format.CompressionZstd:
		return newZstdReader(r)
	case format.CompressionS2:
		return newS2Reader(r), nil
	case format.CompressionLZ4:
		return newLZ4Reader(r), nil
	default:
		return nil, fmt.Errorf("%w: cannot stream %s", errs.ErrInvalidCompression, compressionType)
	}
}

var extensions = map[string]format.CompressionType{
	".gz":   format.CompressionGzip,
	".zst":  format.CompressionZstd,
	".zstd": format.CompressionZstd,
	".s2":   format.CompressionS2,
	".sz":   format.CompressionS2,
	".lz4":  format.CompressionLZ4,
}

// FromExtension returns the compression type implied by the last extension of path,
// and path with that extension removed. Paths without a known compression
// extension yield CompressionNone and the unchanged path.
//
// Example:
//
//	ct, base := FromExtension("data/run1.csv.zst") // CompressionZstd, "data/run1.csv"
func FromExtension(path string) (format.CompressionType, string) {
	ext := filepath.Ext(path)
	if ct, ok := extensions[strings.ToLower(ext)]; ok {
		return ct, strings.TrimSuffix(path, ext)
	}

	return format.CompressionNone, path
}
