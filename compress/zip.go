package compress

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"

	"github.com/arloliu/autofmu/errs"
	"github.com/arloliu/autofmu/format"
)

// ZipMethodZstd is the zip method identifier for Zstandard entries (WinZip convention).
const ZipMethodZstd = zstd.ZipMethodWinZip

// ZipMethod returns the zip method identifier used for entries of compressionType.
//
// Only None, Deflate and Zstd can be stored in an archive.
func ZipMethod(compressionType format.CompressionType) (uint16, error) {
	switch compressionType {
	case format.CompressionNone:
		return zip.Store, nil
	case format.CompressionDeflate:
		return zip.Deflate, nil
	case format.CompressionZstd:
		return ZipMethodZstd, nil
	default:
		return 0, fmt.Errorf("%w: %s is not a zip entry method", errs.ErrInvalidCompression, compressionType)
	}
}

// RegisterZip installs the compressors used by autofmu on w: best-compression
// deflate and Zstandard.
func RegisterZip(w *zip.Writer) {
	w.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})
	w.RegisterCompressor(ZipMethodZstd, zstd.ZipCompressor(zstd.WithEncoderConcurrency(1)))
}

// RegisterUnzip installs the Zstandard decompressor on r. Store and Deflate are
// built into the zip reader.
func RegisterUnzip(r *zip.Reader) {
	r.RegisterDecompressor(ZipMethodZstd, zstd.ZipDecompressor())
}
