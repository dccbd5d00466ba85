// Package export writes record sequences as xlsx workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"recordbook/internal/model"
)

const (
	// SheetName is the worksheet holding the records.
	SheetName = "Records"
	// ContentType is the MIME type of the produced workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Columns is the header row, one column per record field.
var Columns = []string{"fullName", "amount", "phoneNumber", "profilePicture", "dateSubmitted"}

// FileName returns the download name for base.
func FileName(base string) string {
	return base + ".xlsx"
}

// Write encodes records, in order, as a single-sheet workbook to w.
func Write(w io.Writer, records []model.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.FullName,
			r.Amount.InexactFloat64(),
			r.PhoneNumber,
			r.PictureURL(),
			r.DateSubmitted.UTC().Format(timestampLayout),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
