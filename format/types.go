package format

import (
	"fmt"
	"strings"

	"github.com/arloliu/autofmu/errs"
)

type (
	StrategyKind    uint8
	Causality       uint8
	CompressionType uint8
)

const (
	StrategyLinear   StrategyKind = 0x1 // StrategyLinear fits ordinary least squares per output.
	StrategyLogistic StrategyKind = 0x2 // StrategyLogistic fits a multinomial classifier per output.

	CausalityInput  Causality = 0x1 // CausalityInput is a variable supplied by the importer.
	CausalityOutput Causality = 0x2 // CausalityOutput is a variable computed by the FMU.

	CompressionNone    CompressionType = 0x1 // CompressionNone stores data as-is.
	CompressionDeflate CompressionType = 0x2 // CompressionDeflate is the zip Deflate method.
	CompressionZstd    CompressionType = 0x3 // CompressionZstd represents Zstandard compression.
	CompressionS2      CompressionType = 0x4 // CompressionS2 represents S2 stream compression.
	CompressionLZ4     CompressionType = 0x5 // CompressionLZ4 represents LZ4 frame compression.
	CompressionGzip    CompressionType = 0x6 // CompressionGzip represents gzip compression.
)

func (s StrategyKind) String() string {
	switch s {
	case StrategyLinear:
		return "linear"
	case StrategyLogistic:
		return "logistic"
	default:
		return "unknown"
	}
}

// ParseStrategy returns the StrategyKind named by s (case-insensitive).
func ParseStrategy(s string) (StrategyKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear":
		return StrategyLinear, nil
	case "logistic":
		return StrategyLogistic, nil
	default:
		return 0, fmt.Errorf("%w: %q (supported: linear, logistic)", errs.ErrInvalidStrategy, s)
	}
}

func (c Causality) String() string {
	switch c {
	case CausalityInput:
		return "input"
	case CausalityOutput:
		return "output"
	default:
		return "unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionDeflate:
		return "deflate"
	case CompressionZstd:
		return "zstd"
	case CompressionS2:
		return "s2"
	case CompressionLZ4:
		return "lz4"
	case CompressionGzip:
		return "gzip"
	default:
		return "unknown"
	}
}

// ParseCompression returns the CompressionType named by s (case-insensitive).
func ParseCompression(s string) (CompressionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "store":
		return CompressionNone, nil
	case "deflate":
		return CompressionDeflate, nil
	case "zstd":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	case "gzip", "gz":
		return CompressionGzip, nil
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrInvalidCompression, s)
	}
}
