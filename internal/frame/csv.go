package frame

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV reads a comma-separated table with a header row. Cells spelled like
// a NullToken are missing, and each column takes the narrowest type (int,
// float, bool or string) that fits its set cells. Repeated header names get
// numeric suffixes. A leading UTF-8 BOM, as written by the exporter, is
// skipped.
func ReadCSV(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, err
		}
	}

	df := dataframe.ReadCSV(br,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(NullTokens),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", df.Err)
	}
	return &Table{df: df}, nil
}
