package export

import (
	"fmt"
	"io"
	"time"

	"github.com/tealeg/xlsx"

	"github.com/aken1023/care-sch/internal/app/model"
)

const SheetName = "Care Records"

var Header = []string{
	"ID",
	"Timestamp",
	"User",
	"Channel",
	"Status",
	"Transcription",
	"Report",
	"Error Kind",
	"Error Message",
	"Record Dir",
	"Created At",
}

// Build lays out one row per entry under a header row.
func Build(entries []model.RecordEntry) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range Header {
		headerRow.AddCell().Value = h
	}

	for _, e := range entries {
		row := sheet.AddRow()
		row.AddCell().Value = fmt.Sprint(e.ID)
		row.AddCell().Value = e.Timestamp
		row.AddCell().Value = e.UserID
		row.AddCell().Value = e.Channel
		row.AddCell().Value = e.Status
		row.AddCell().Value = e.Transcription
		row.AddCell().Value = e.Report
		row.AddCell().Value = e.ErrorKind
		row.AddCell().Value = e.ErrorMessage
		row.AddCell().Value = e.RecordDir
		row.AddCell().Value = e.CreatedAt.Format(time.RFC3339)
	}

	return file, nil
}

// ToExcel writes the workbook to outputFilePath.
func ToExcel(entries []model.RecordEntry, outputFilePath string) error {
	file, err := Build(entries)
	if err != nil {
		return err
	}
	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("save %s: %w", outputFilePath, err)
	}
	return nil
}

// Write streams the workbook, e.g. as an HTTP attachment.
func Write(w io.Writer, entries []model.RecordEntry) error {
	file, err := Build(entries)
	if err != nil {
		return err
	}
	return file.Write(w)
}

// FileName is the suggested attachment name for an export made at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("care_records_%s.xlsx", t.Format(model.TimestampLayout))
}
