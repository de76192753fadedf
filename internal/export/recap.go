package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"driver-log-service/internal/domain"
)

const recapSheetName = "Recap"

var recapHeader = []string{
	"Date", "From", "To", "Miles", "Cumulative",
	"Off Duty", "Sleeper", "Driving", "On Duty",
}

// WriteRecap writes a one-row-per-day XLSX recap of the trip, with a
// totals row at the bottom.
func WriteRecap(sheets []domain.DailySheet, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", recapSheetName); err != nil {
		return fmt.Errorf("write recap: rename sheet: %w", err)
	}

	for col, title := range recapHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("write recap: header cell: %w", err)
		}
		if err := f.SetCellValue(recapSheetName, cell, title); err != nil {
			return fmt.Errorf("write recap: header %q: %w", title, err)
		}
	}

	var totalMiles, totalOff, totalSB, totalD, totalON float64
	for i, s := range sheets {
		row := []interface{}{
			s.Date.Format("2006-01-02"),
			s.StartLocation,
			s.EndLocation,
			s.DailyMiles,
			s.CumulativeMi,
			s.Totals.OffDuty,
			s.Totals.Sleeper,
			s.Totals.Driving,
			s.Totals.OnDuty,
		}
		if err := setRow(f, i+2, row); err != nil {
			return fmt.Errorf("write recap: day %s: %w", s.Date.Format("2006-01-02"), err)
		}
		totalMiles += s.DailyMiles
		totalOff += s.Totals.OffDuty
		totalSB += s.Totals.Sleeper
		totalD += s.Totals.Driving
		totalON += s.Totals.OnDuty
	}

	totals := []interface{}{
		"Total", "", "", totalMiles, "", totalOff, totalSB, totalD, totalON,
	}
	if err := setRow(f, len(sheets)+2, totals); err != nil {
		return fmt.Errorf("write recap: totals row: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write recap: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, rowNum int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(recapSheetName, cell, v); err != nil {
			return err
		}
	}
	return nil
}
