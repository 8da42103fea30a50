package dataprocessing

import (
	"os"

	apperrors "wranglecli/internal/errors"
	"wranglecli/internal/frame"
)

// LoadCSV reads a headed CSV file into a table
func LoadCSV(path string) (*frame.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewSourceUnavailableError("cannot open csv file", err).
			WithContext("path", path)
	}
	defer f.Close()

	t, err := frame.ReadCSV(f)
	if err != nil {
		return nil, apperrors.NewParsingError("cannot parse csv file", err).
			WithContext("path", path)
	}
	return t, nil
}
