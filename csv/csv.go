// Package csv wraps the stdlib csv reader with the column-oriented API used by the GTFS static parser.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/mtransitapps/gtfs/constants"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// File is a single CSV table inside a feed, read one row at a time.
type File struct {
	name                   constants.StaticFile
	csvReader              *csv.Reader
	headerMap              map[string]int
	missingRequiredColumns []string
	cells                  []string
	missingKeys            []string
	rowNumber              int
	ioErr                  error
	closer                 func() error
}

// New reads the header row of the file. The reader is closed on error.
func New(name constants.StaticFile, reader io.ReadCloser) (*File, error) {
	csvReader := BOMAwareCSVReader(reader)
	csvReader.FieldsPerRecord = -1
	header, err := csvReader.Read()
	if err == io.EOF {
		reader.Close()
		return nil, fmt.Errorf("%s contains no rows", name)
	} else if err != nil {
		reader.Close()
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	csvReader.ReuseRecord = true
	m := map[string]int{}
	for i, colHeader := range header {
		m[strings.TrimSpace(colHeader)] = i
	}
	return &File{
		name:      name,
		headerMap: m,
		csvReader: csvReader,
		closer:    reader.Close,
	}, nil
}

func (f *File) Name() constants.StaticFile {
	return f.name
}

type RequiredColumn struct {
	i int
	s string
	f *File
}

func (f *File) RequiredColumn(s string) RequiredColumn {
	i, ok := f.headerMap[s]
	if !ok {
		f.missingRequiredColumns = append(f.missingRequiredColumns, s)
		i = -1
	}
	return RequiredColumn{i, s, f}
}

func (f *File) MissingRequiredColumns() []string {
	if len(f.missingRequiredColumns) == 0 {
		return nil
	}
	return f.missingRequiredColumns
}

// Read returns the cell in the current row, recording the column as missing if it is empty.
func (c RequiredColumn) Read() string {
	if c.i < 0 || c.i >= len(c.f.cells) || c.f.cells[c.i] == "" {
		c.f.missingKeys = append(c.f.missingKeys, c.s)
		return ""
	}
	return strings.Clone(c.f.cells[c.i])
}

type OptionalColumn struct {
	i int
	f *File
}

func (f *File) OptionalColumn(s string) OptionalColumn {
	i, ok := f.headerMap[s]
	if !ok {
		i = -1
	}
	return OptionalColumn{i: i, f: f}
}

// Present reports whether the column exists in the header.
func (c OptionalColumn) Present() bool {
	return c.i >= 0
}

func (c OptionalColumn) Read() string {
	return c.ReadOr("")
}

func (c OptionalColumn) ReadOr(s string) string {
	if c.i < 0 || c.i >= len(c.f.cells) || c.f.cells[c.i] == "" {
		return s
	}
	// The CSV reader reuses its backing array across rows.
	return strings.Clone(c.f.cells[c.i])
}

func (f *File) NextRow() bool {
	cells, err := f.csvReader.Read()
	if err == io.EOF {
		f.cells = nil
		return false
	}
	if err != nil {
		f.cells = nil
		f.ioErr = fmt.Errorf("%s row %d: %w", f.name, f.rowNumber+1, err)
		return false
	}
	f.rowNumber += 1
	f.cells = cells
	f.missingKeys = nil
	return true
}

func (f *File) RowNumber() int {
	return f.rowNumber
}

func (f *File) MissingRowKeys() []string {
	return f.missingKeys
}

func (f *File) Close() error {
	closeErr := f.closer()
	if f.ioErr != nil {
		return f.ioErr
	}
	return closeErr
}

// From: https://stackoverflow.com/a/76023436
//
// BOMAwareCSVReader will detect a UTF BOM (Byte Order Mark) at the
// start of the data and transform to UTF8 accordingly.
// If there is no BOM, it will read the data without any transformation.
func BOMAwareCSVReader(reader io.Reader) *csv.Reader {
	var transformer = unicode.BOMOverride(encoding.Nop.NewDecoder())
	return csv.NewReader(transform.NewReader(reader, transformer))
}
