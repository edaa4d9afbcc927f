package export

import (
	"fmt"
	"io"
	"time"

	"structiv/internal/models"

	"github.com/xuri/excelize/v2"
)

const SheetName = "Bookings"

var headers = []string{
	"ID", "Unit", "Price", "Size", "Tenant", "Email", "Contact",
	"Booking date", "Meeting date", "Meeting time", "Status", "Admin message", "Created",
}

// FileName is the download name of an export produced at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("bookings_%s.xlsx", t.Format("2006-01-02"))
}

// WriteBookings renders one row per booking to w as an xlsx workbook.
func WriteBookings(w io.Writer, bookings []*models.BookingView, generated time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.SetCellValue(SheetName, "A1", fmt.Sprintf("Bookings as of %s", generated.Format("2006-01-02 15:04")))
	_ = f.MergeCell(SheetName, "A1", lastCol+"1")
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(SheetName, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(SheetName, cell, h)
	}
	_ = f.SetCellStyle(SheetName, "A2", lastCol+"2", headerStyle)

	styles, err := statusStyles(f)
	if err != nil {
		return err
	}

	for i, b := range bookings {
		row := i + 3
		values := []interface{}{
			b.ID, b.UnitName, b.UnitPrice, b.UnitSize,
			fmt.Sprintf("%s %s", b.FirstName, b.LastName), b.Email, b.ContactNumber,
			b.BookingDate, b.MeetingDate, b.MeetingTime, b.Status, b.AdminMessage,
			b.CreatedAt.Format("2006-01-02 15:04"),
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetName, start, &values); err != nil {
			return fmt.Errorf("error writing row %d: %w", row, err)
		}
		if style, ok := styles[b.Status]; ok {
			cell, _ := excelize.CoordinatesToCellName(11, row)
			_ = f.SetCellStyle(SheetName, cell, cell, style)
		}
	}

	_ = f.SetColWidth(SheetName, "A", "A", 8)
	_ = f.SetColWidth(SheetName, "B", lastCol, 18)
	_ = f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 2, TopLeftCell: "A3", ActivePane: "bottomLeft"})

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

func statusStyles(f *excelize.File) (map[string]int, error) {
	colors := map[string]string{
		models.StatusPending:  "#FFF2CC",
		models.StatusApproved: "#E2EFDA",
		models.StatusDeclined: "#F8CBAD",
	}
	styles := make(map[string]int, len(colors))
	for status, color := range colors {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return nil, fmt.Errorf("error creating style: %w", err)
		}
		styles[status] = id
	}
	return styles, nil
}
