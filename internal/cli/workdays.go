package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"leavedesk/internal/domain/leave"
	"leavedesk/internal/domain/workday"
)

type WorkdaysCmd struct {
	From string `help:"First day of the range (YYYY-MM-DD)." required:""`
	To   string `help:"Last day of the range (YYYY-MM-DD)." required:""`
	Days string `help:"Working weekdays, comma separated." default:"mon,tue,wed,thu,fri"`
}

func (c *WorkdaysCmd) Run(ctx *Context) error {
	start, ok := leave.ParseDate(c.From)
	if !ok {
		return fmt.Errorf("invalid --from date: %q", c.From)
	}
	end, ok := leave.ParseDate(c.To)
	if !ok {
		return fmt.Errorf("invalid --to date: %q", c.To)
	}
	if start.After(end) {
		return fmt.Errorf("--from %s is after --to %s", c.From, c.To)
	}
	schedule, err := workday.ParseWeekdays(c.Days)
	if err != nil {
		return err
	}
	return RenderWorkdays(ctx.Out, start, end, schedule)
}

// RenderWorkdays prints the leave days Expand selects for the range.
func RenderWorkdays(w io.Writer, start, end time.Time, schedule workday.WeeklySchedule) error {
	days := workday.Expand(start, end, schedule)

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Leave days %s to %s (%s)",
		start.Format(time.DateOnly), end.Format(time.DateOnly), schedule)))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		headerStyle.Render("Date"),
		headerStyle.Render("Weekday"),
		headerStyle.Render("Type"),
	))
	b.WriteString("\n")

	for _, day := range days {
		style := cellStyle
		if wd := day.Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			style = weekendStyle
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			style.Render(day.Date.Format(time.DateOnly)),
			style.Render(day.Date.Weekday().String()),
			style.Render(string(day.DayType)),
		))
		b.WriteString("\n")
	}

	b.WriteString(summaryStyle.Render(fmt.Sprintf("%d working days out of %d calendar days",
		len(days), workday.CountCalendarDays(start, end))))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
