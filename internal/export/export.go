package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/gridops/gridassess/internal/assess"
	"github.com/gridops/gridassess/internal/store"
)

// SheetName is the sheet assessments land on in workbook exports.
const SheetName = "assessments"

func header() []string {
	h := []string{"id", "leader_id", "name", "area", "date"}
	h = append(h, assess.Codes()...)
	return append(h, "import_date", "total_score")
}

func record(row store.LeaderAssessment) []string {
	rec := []string{
		strconv.FormatInt(row.ID, 10),
		strconv.FormatInt(row.LeaderID, 10),
		row.Name,
		row.Area,
		row.Date,
	}
	for _, code := range assess.Codes() {
		rec = append(rec, strconv.FormatFloat(row.Scores[code], 'f', -1, 64))
	}
	rec = append(rec, row.ImportDate, strconv.FormatFloat(row.TotalScore, 'f', -1, 64))
	return rec
}

// CSV writes rows as tab-separated values, matching the original export
// format.
func CSV(w io.Writer, rows []store.LeaderAssessment) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write(header()); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(record(row)); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// XLSX writes rows as a single-sheet workbook.
func XLSX(w io.Writer, rows []store.LeaderAssessment) error {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName(wb.GetSheetName(0), SheetName); err != nil {
		return err
	}

	writeRow := func(n int, values []string) error {
		cellRef, err := excelize.CoordinatesToCellName(1, n)
		if err != nil {
			return err
		}
		cells := make([]interface{}, len(values))
		for i, v := range values {
			cells[i] = v
		}
		return wb.SetSheetRow(SheetName, cellRef, &cells)
	}

	if err := writeRow(1, header()); err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeRow(i+2, record(row)); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return wb.Write(w)
}
