package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/autofmu/compress"
	"github.com/arloliu/autofmu/errs"
	"github.com/arloliu/autofmu/format"
)

const sample = "x, y ,label\n1,2,a\n3,4.5,b\n-1e3,0,a\n"

func TestRead(t *testing.T) {
	tbl, err := Read(strings.NewReader(sample))
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Len())
	require.Equal(t, []string{"x", "y", "label"}, tbl.Names())

	x, ok := tbl.Column("x")
	require.True(t, ok)
	values, err := x.Float64s()
	require.NoError(t, err)
	require.Equal(t, []float64{1, 3, -1000}, values)

	label, ok := tbl.Column("label")
	require.True(t, ok)
	require.Equal(t, []string{"a", "b", "a"}, label.Strings())

	_, err = label.Float64s()
	require.ErrorIs(t, err, errs.ErrNonNumeric)
	require.ErrorIs(t, err, errs.ErrInput)
	require.Contains(t, err.Error(), "row 1")

	_, ok = tbl.Column("missing")
	require.False(t, ok)
}

func TestRead_Errors(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	require.ErrorIs(t, err, errs.ErrEmptyDataset)

	_, err = Read(strings.NewReader("x,x\n1,2\n"))
	require.ErrorIs(t, err, errs.ErrDuplicateColumn)

	_, err = Read(strings.NewReader("x,y\n1,2\n3\n"))
	require.ErrorIs(t, err, errs.ErrInput)
}

func TestRead_HeaderOnly(t *testing.T) {
	tbl, err := Read(strings.NewReader("x,y\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
}

func TestRead_ByteOrderMark(t *testing.T) {
	tbl, err := Read(strings.NewReader("\ufeffx,y\n1,2\n"))
	require.NoError(t, err)
	_, ok := tbl.Column("x")
	require.True(t, ok)
}

func TestNamesIsACopy(t *testing.T) {
	tbl, err := FromFloat64s([]string{"a"}, []float64{1})
	require.NoError(t, err)
	names := tbl.Names()
	names[0] = "changed"
	require.Equal(t, []string{"a"}, tbl.Names())
}

func TestFromFloat64s(t *testing.T) {
	tbl, err := FromFloat64s([]string{"a", "b"}, []float64{0.1, 2}, []float64{1e-300, -3})
	require.NoError(t, err)
	b, _ := tbl.Column("b")
	values, err := b.Float64s()
	require.NoError(t, err)
	require.Equal(t, []float64{1e-300, -3}, values)

	_, err = FromFloat64s([]string{"a", "b"}, []float64{1}, []float64{1, 2})
	require.ErrorIs(t, err, errs.ErrInput)

	_, err = FromFloat64s([]string{"a"})
	require.ErrorIs(t, err, errs.ErrInput)
}

func writeFile(t *testing.T, dir, name string, ct format.CompressionType, content string) string {
	t.Helper()

	codec, err := compress.CreateCodec(ct, "dataset")
	require.NoError(t, err)
	data, err := codec.Compress([]byte(content))
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func TestLoad_Compressed(t *testing.T) {
	dir := t.TempDir()
	files := []struct {
		name string
		ct   format.CompressionType
	}{
		{"plain.csv", format.CompressionNone},
		{"a.csv.gz", format.CompressionGzip},
		{"b.csv.zst", format.CompressionZstd},
		{"c.csv.lz4", format.CompressionLZ4},
		{"d.csv.s2", format.CompressionS2},
	}

	for _, f := range files {
		t.Run(f.name, func(t *testing.T) {
			path := writeFile(t, dir, f.name, f.ct, sample)
			tbl, err := Load(path)
			require.NoError(t, err)
			require.Equal(t, 3, tbl.Len())
		})
	}
}

func TestLoad_Concatenates(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", format.CompressionNone, "x,y\n1,2\n")
	b := writeFile(t, dir, "b.csv.gz", format.CompressionGzip, "x,y\n3,4\n5,6\n")

	tbl, err := Load(a, b)
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Len())
	x, _ := tbl.Column("x")
	values, err := x.Float64s()
	require.NoError(t, err)
	require.Equal(t, []float64{1, 3, 5}, values)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", format.CompressionNone, "x,y\n1,2\n")
	b := writeFile(t, dir, "b.csv", format.CompressionNone, "x,z\n1,2\n")

	_, err := Load(a, b)
	require.ErrorIs(t, err, errs.ErrHeaderMismatch)

	_, err = Load()
	require.ErrorIs(t, err, errs.ErrInput)

	_, err = Load(filepath.Join(dir, "absent.csv"))
	require.ErrorIs(t, err, errs.ErrInput)
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(filepath.Join(dir, "data.parquet"))
	require.ErrorIs(t, err, errs.ErrUnsupportedDataFormat)

	bad := writeFile(t, dir, "bad.csv.gz", format.CompressionNone, "x,y\n1,2\n")
	_, err = Load(bad)
	require.ErrorIs(t, err, errs.ErrInput)
}

func TestFloat64s_RejectsNonFinite(t *testing.T) {
	tbl, err := Read(strings.NewReader("x\n1\nNaN\n"))
	require.NoError(t, err)
	x, _ := tbl.Column("x")
	_, err = x.Float64s()
	require.ErrorIs(t, err, errs.ErrNonNumeric)
	require.Contains(t, err.Error(), "row 2")
}
