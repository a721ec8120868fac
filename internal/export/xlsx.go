package export

import (
	"fmt"
	"time"

	"github.com/tealeg/xlsx"
)

// Sheet is one table worth of rows for WriteXLSX.
type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]interface{}
}

// WriteXLSX writes each sheet into one workbook at path.
func WriteXLSX(path string, sheets []Sheet) error {
	file := xlsx.NewFile()
	for _, s := range sheets {
		sheet, err := file.AddSheet(s.Name)
		if err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", s.Name, err)
		}

		header := sheet.AddRow()
		for _, c := range s.Columns {
			header.AddCell().SetValue(c)
		}
		for _, r := range s.Rows {
			row := sheet.AddRow()
			for _, v := range r {
				row.AddCell().SetValue(cellValue(v))
			}
		}
	}
	if err := file.Save(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func cellValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	default:
		return val
	}
}
