// Package export streams the current filtered grid view as a download.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format identifies a supported download format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrUnsupportedFormat is returned when a requested format is not supported.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatCSV, "":
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Service writes tabular exports.
type Service struct {
	sheetName string
}

// Option customizes the export service.
type Option func(*Service)

// WithSheetName overrides the worksheet name used for xlsx exports.
func WithSheetName(name string) Option {
	return func(s *Service) {
		if strings.TrimSpace(name) != "" {
			s.sheetName = name
		}
	}
}

// NewService creates a new export service.
func NewService(opts ...Option) *Service {
	s := &Service{sheetName: "Sheet1"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write renders the header row and data rows to w in the requested format.
func (s *Service) Write(w io.Writer, format Format, headers []string, rows [][]string) error {
	switch format {
	case FormatCSV:
		return s.writeCSV(w, headers, rows)
	case FormatXLSX:
		return s.writeXLSX(w, headers, rows)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func (s *Service) writeCSV(w io.Writer, headers []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *Service) writeXLSX(w io.Writer, headers []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if s.sheetName != sheet {
		if err := f.SetSheetName(sheet, s.sheetName); err != nil {
			return fmt.Errorf("failed to rename sheet: %w", err)
		}
		sheet = s.sheetName
	}

	if err := setRow(f, sheet, 1, headers); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNumber int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", rowNumber, err)
	}

	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNumber, err)
	}
	return nil
}
