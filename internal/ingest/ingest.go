// Package ingest implements the CSV ingestion pipeline: read a tabular file,
// normalize and validate every row, reject duplicates, and emit validated
// records in input order. The pipeline is all-or-nothing: any structural or
// per-row failure rejects the whole file.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mlukasik/swift-registry/internal/model"
	"github.com/mlukasik/swift-registry/internal/validation"
)

var (
	ErrFileNotFound       = errors.New("file not found at the specified path")
	ErrInvalidFileType    = errors.New("file must be a CSV file")
	ErrParse              = errors.New("error parsing CSV file")
	ErrMissingColumn      = errors.New("required column is missing from the CSV file")
	ErrInvalidSwiftCode   = errors.New("one or more SWIFT codes in the file are invalid")
	ErrDuplicateSwiftCode = errors.New("file contains duplicate SWIFT codes")
)

// Required header set. Column order in the file is irrelevant.
var requiredColumns = []string{
	"SWIFT CODE",
	"COUNTRY ISO2 CODE",
	"COUNTRY NAME",
	"NAME",
	"ADDRESS",
}

// Reported codes are capped so an error message for a large broken file
// stays readable.
const maxReportedCodes = 5

// ParseFile runs the pipeline against a file on disk. The extension check
// happens before the file is opened so a misnamed upload never gets parsed.
func ParseFile(path string) ([]model.SwiftRecord, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if strings.ToLower(filepath.Ext(path)) != ".csv" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFileType, filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileNotFound, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse runs the pipeline against already-opened CSV content.
func Parse(r io.Reader) ([]model.SwiftRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// Rows may legitimately have trailing cells missing; absent cells are
	// treated as empty strings during normalization.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: CSV file is empty", ErrParse)
		}
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	columns := make(map[string]int, len(header))
	for i, col := range header {
		columns[strings.ToUpper(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var rows [][]string
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrParse, line, err)
		}
		rows = append(rows, append([]string(nil), row...))
	}

	cell := func(row []string, column string) string {
		idx := columns[column]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	// File-wide format validation. Only the format rule applies here: the
	// headquarter flag is derived below, never read from the file.
	var invalid []string
	for _, row := range rows {
		code := validation.NormalizeCode(cell(row, "SWIFT CODE"))
		if err := validation.CheckCode(code); err != nil {
			invalid = append(invalid, code)
		}
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSwiftCode, reportCodes(invalid))
	}

	// File-level duplicate detection before any record is emitted.
	seen := make(map[string]int, len(rows))
	var duplicates []string
	for _, row := range rows {
		code := validation.NormalizeCode(cell(row, "SWIFT CODE"))
		seen[code]++
		if seen[code] == 2 {
			duplicates = append(duplicates, code)
		}
	}
	if len(duplicates) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateSwiftCode, reportCodes(duplicates))
	}

	records := make([]model.SwiftRecord, 0, len(rows))
	for _, row := range rows {
		code := validation.NormalizeCode(cell(row, "SWIFT CODE"))
		records = append(records, model.SwiftRecord{
			SwiftCode:     code,
			BankName:      strings.ToUpper(cell(row, "NAME")),
			Address:       strings.ToUpper(cell(row, "ADDRESS")),
			CountryISO2:   strings.ToUpper(cell(row, "COUNTRY ISO2 CODE")),
			CountryName:   strings.ToUpper(cell(row, "COUNTRY NAME")),
			IsHeadquarter: model.HeadquarterCode(code),
		})
	}

	return records, nil
}

func reportCodes(codes []string) string {
	if len(codes) > maxReportedCodes {
		return fmt.Sprintf("%s and %d more", strings.Join(codes[:maxReportedCodes], ", "), len(codes)-maxReportedCodes)
	}
	return strings.Join(codes, ", ")
}
