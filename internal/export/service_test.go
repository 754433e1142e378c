package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

var (
	testHeaders = []string{"Name", "Salary"}
	testRows    = [][]string{
		{"Ada", "1250.5"},
		{"Grace", "2000"},
	}
)

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != FormatCSV {
		t.Fatalf("expected empty format to default to csv, got %v %v", f, err)
	}
	if f, err := ParseFormat(" XLSX "); err != nil || f != FormatXLSX {
		t.Fatalf("expected xlsx, got %v %v", f, err)
	}
	if _, err := ParseFormat("pdf"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	if err := NewService().Write(&buf, FormatCSV, testHeaders, testRows); err != nil {
		t.Fatalf("expected csv export to succeed, got %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("expected readable csv, got %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus two rows, got %d", len(records))
	}
	if records[0][0] != "Name" || records[2][1] != "2000" {
		t.Fatalf("unexpected csv content: %v", records)
	}
}

func TestWrite_XLSX(t *testing.T) {
	var buf bytes.Buffer
	svc := NewService(WithSheetName("Employees"))
	if err := svc.Write(&buf, FormatXLSX, testHeaders, testRows); err != nil {
		t.Fatalf("expected xlsx export to succeed, got %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("expected readable workbook, got %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Employees")
	if err != nil {
		t.Fatalf("expected named sheet, got %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus two rows, got %d", len(rows))
	}
	if rows[0][1] != "Salary" || rows[1][0] != "Ada" {
		t.Fatalf("unexpected sheet content: %v", rows)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := NewService().Write(&buf, Format("pdf"), testHeaders, testRows); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}
