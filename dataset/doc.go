// Package dataset loads the tabular training data consumed by the strategy engine.
//
// A Table is an ordered set of named columns sharing one row count. Cells are kept as
// the raw strings read from the source so that categorical outputs keep their exact
// labels; numeric access parses on demand:
//
//	tbl, err := dataset.Load("runs/a.csv", "runs/b.csv.zst")
//	if err != nil {
//	    return err
//	}
//	col, ok := tbl.Column("x")
//	values, err := col.Float64s()
//
// Files whose name ends in a compression extension (.gz, .zst, .zstd, .lz4, .s2, .sz)
// are decompressed while they are read. Multiple files must share the same header and
// their rows are concatenated in argument order.
package dataset
