package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrEmptyFile   = errors.New("file has no rows")
	ErrUnsupported = errors.New("unsupported file format")
	ErrUnreadable  = errors.New("file could not be read")
)

var zipMagic = []byte("PK\x03\x04")

// ReadRows returns every row of the first sheet of an xlsx workbook, or of a
// comma/semicolon separated file. The first row is the header.
func ReadRows(r io.Reader, filename string) ([][]string, error) {
	br := bufio.NewReader(r)

	var rows [][]string
	var err error
	switch format(br, filename) {
	case "xlsx":
		rows, err = readXLSX(br)
	case "csv":
		rows, err = readCSV(br)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(filename))
	}
	if err != nil {
		return nil, err
	}

	data := 0
	for _, row := range rows {
		if !isBlank(row) {
			data++
		}
	}
	if data < 2 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

func format(br *bufio.Reader, filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return "xlsx"
	case ".csv", ".txt":
		return "csv"
	case ".xls", ".ods", ".pdf":
		return ""
	}
	if head, _ := br.Peek(len(zipMagic)); bytes.Equal(head, zipMagic) {
		return "xlsx"
	}
	return "csv"
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrUnreadable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	// Raw values keep dates as serial numbers and amounts unformatted.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrUnreadable, sheets[0], err)
	}
	return rows, nil
}

func readCSV(br *bufio.Reader) ([][]string, error) {
	data, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectSeparator(data)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse csv: %v", ErrUnreadable, err)
	}
	return rows, nil
}

// detectSeparator picks ';' when the header line has more semicolons than commas.
func detectSeparator(data []byte) rune {
	header := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		header = data[:i]
	}
	if bytes.Count(header, []byte(";")) > bytes.Count(header, []byte(",")) {
		return ';'
	}
	return ','
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
