package leave

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// WriteSummaryPDF renders an A4 summary of req with its leave days.
func WriteSummaryPDF(w io.Writer, req LeaveRequest, leaveTypeName, requesterName string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Leave request "+req.ID.Hex(), true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Leave request")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Employee: %s", requesterName),
		fmt.Sprintf("Leave type: %s", leaveTypeName),
		fmt.Sprintf("Period: %s to %s", req.StartDate.Format(time.DateOnly), req.EndDate.Format(time.DateOnly)),
		fmt.Sprintf("Status: %s", req.Status),
		fmt.Sprintf("Working days: %d", req.WorkingDays()),
	}
	for _, line := range lines {
		pdf.Cell(0, 8, line)
		pdf.Ln(7)
	}
	pdf.Ln(3)
	pdf.MultiCell(0, 6, "Reason: "+strings.TrimSpace(req.Reason), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(50, 7, "Date", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "Weekday", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Type", "1", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, day := range req.LeaveDays {
		pdf.CellFormat(50, 7, day.Date.Format(time.DateOnly), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, day.Date.Weekday().String(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, string(day.DayType), "1", 1, "L", false, 0, "")
	}

	return pdf.Output(w)
}
