package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"driver-log-service/internal/domain"
)

func TestWriteRecap(t *testing.T) {
	d1 := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	sheets := []domain.DailySheet{
		{
			Date:          d1,
			StartLocation: "Dallas, TX",
			EndLocation:   "En route, mile 440",
			DailyMiles:    440,
			CumulativeMi:  440,
			Totals:        domain.DutyTotals{OffDuty: 14, Driving: 8, OnDuty: 2},
		},
		{
			Date:          d1.AddDate(0, 0, 1),
			StartLocation: "En route, mile 440",
			EndLocation:   "Memphis, TN",
			DailyMiles:    110,
			CumulativeMi:  550,
			Totals:        domain.DutyTotals{OffDuty: 21, Driving: 2, OnDuty: 1},
		},
	}

	var buf bytes.Buffer
	if err := WriteRecap(sheets, &buf); err != nil {
		t.Fatalf("WriteRecap: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(recapSheetName)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want header + 2 days + totals", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][3] != "Miles" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	if rows[1][0] != "2025-03-03" || rows[2][2] != "Memphis, TN" {
		t.Errorf("unexpected day rows: %v / %v", rows[1], rows[2])
	}
	if rows[3][0] != "Total" || rows[3][3] != "550" {
		t.Errorf("unexpected totals row: %v", rows[3])
	}
}
