package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"cordoba/internal/importer"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// TemplateSheet is the sheet name of the xlsx import template.
const TemplateSheet = "Devedores"

// sampleRows are written below the header, one value per field of
// importer.AllFields in the same order.
var sampleRows = [][]string{
	{"123.456.789-00", "João da Silva", "1500.00", "2024-12-31", "1985-05-15", "M", "(11) 99999-8888",
		"joao@email.com", "CTR-2024-001", "ativo", "2024-01-15", "Rua das Flores, 123", "São Paulo", "SP", "01234-567"},
	{"987.654.321-00", "Maria Oliveira", "2350.90", "2024-11-30", "1990-08-22", "F", "(21) 98888-7777",
		"maria@email.com", "CTR-2024-002", "atrasado", "2024-02-01", "Av. Atlântica, 500", "Rio de Janeiro", "RJ", "22010-000"},
	{"111.222.333-44", "Carlos Souza", "780.50", "2025-01-15", "", "", "(31) 97777-6666",
		"", "", "", "", "", "Belo Horizonte", "MG", ""},
}

// TemplateHeader returns the canonical field names in import order.
func TemplateHeader() []string {
	fields := importer.AllFields()
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Name
	}
	return header
}

// WriteTemplateCSV writes the import template as a BOM-prefixed CSV.
func WriteTemplateCSV(w io.Writer) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(TemplateHeader()); err != nil {
		return err
	}
	if err := cw.WriteAll(sampleRows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteTemplateXLSX writes the import template as a workbook with a single
// TemplateSheet sheet.
func WriteTemplateXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), TemplateSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if err := writeRow(f, 1, TemplateHeader()); err != nil {
		return err
	}
	for i, row := range sampleRows {
		if err := writeRow(f, i+2, row); err != nil {
			return err
		}
	}

	header := TemplateHeader()
	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	if err := f.SetCellStyle(TemplateSheet, "A1", last+"1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}
	if err := f.SetColWidth(TemplateSheet, "A", last, 18); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	if err := f.SetSheetRow(TemplateSheet, cell, &out); err != nil {
		return fmt.Errorf("writing row %d: %w", row, err)
	}
	return nil
}
