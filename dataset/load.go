package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/arloliu/autofmu/compress"
	"github.com/arloliu/autofmu/errs"
)

// Read parses one CSV document whose first record is the header.
func Read(r io.Reader) (*Table, error) {
	header, records, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	return New(header, records)
}

// Load reads and concatenates the CSV files at paths.
//
// All files must have the same header (after trimming). Compressed files are detected
// by extension; the remaining extension must be .csv, .txt or absent.
func Load(paths ...string) (*Table, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no dataset files given", errs.ErrInput)
	}

	var (
		header  []string
		records [][]string
	)
	for _, path := range paths {
		h, recs, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		if header == nil {
			header = h
		} else if !slices.Equal(header, h) {
			return nil, fmt.Errorf("%w: %s has columns %v, expected %v", errs.ErrHeaderMismatch, path, h, header)
		}
		records = append(records, recs...)
	}

	return New(header, records)
}

func loadFile(path string) ([]string, [][]string, error) {
	ct, base := compress.FromExtension(path)
	switch strings.ToLower(filepath.Ext(base)) {
	case ".csv", ".txt", "":
	default:
		return nil, nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedDataFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", errs.ErrInput, err)
	}
	defer f.Close()

	r, err := compress.NewReader(ct, f)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", errs.ErrInput, path, err)
	}
	defer r.Close()

	header, records, err := readCSV(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	return header, records, nil
}

func readCSV(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: missing header row", errs.ErrEmptyDataset)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", errs.ErrInput, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	// A UTF-8 byte order mark would otherwise become part of the first name.
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", errs.ErrInput, err)
	}

	return header, records, nil
}
