// Package export genera planillas xlsx con excelize.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/dropDatabas3/adminhub/internal/domain/repository"
)

// DictionaryTypeSheet es el nombre de la hoja del export de tipos de diccionario.
const DictionaryTypeSheet = "Dictionary Types"

// DictionaryTypeHeader es el encabezado del export, en orden de columnas.
var DictionaryTypeHeader = []string{"Tenant ID", "ID", "Name", "Code", "Description", "Enabled", "Sort"}

var dictionaryTypeWidths = []float64{12, 12, 30, 24, 40, 10, 8}

// DictionaryTypes genera el xlsx con los tipos de diccionario recibidos.
// Con una lista vacía solo escribe el encabezado.
func DictionaryTypes(list []repository.DictionaryType) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(DictionaryTypeSheet)
	if err != nil {
		return nil, fmt.Errorf("export: new sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("export: delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("export: header style: %w", err)
	}

	if err := writeRow(f, 1, toAny(DictionaryTypeHeader)); err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(DictionaryTypeHeader), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(DictionaryTypeSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("export: set header style: %w", err)
	}
	for i, w := range dictionaryTypeWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(DictionaryTypeSheet, col, col, w); err != nil {
			return nil, fmt.Errorf("export: col width: %w", err)
		}
	}

	for i, d := range list {
		var tenant any
		if d.TenantID != nil {
			tenant = *d.TenantID
		}
		enabled := "No"
		if d.Enabled {
			enabled = "Yes"
		}
		row := []any{tenant, d.ID, d.Name, d.Code, d.Description, enabled, d.Sort}
		if err := writeRow(f, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: write: %w", err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

func writeRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(DictionaryTypeSheet, cell, &values); err != nil {
		return fmt.Errorf("export: row %d: %w", row, err)
	}
	return nil
}

func toAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
