package output

import (
	"fmt"
	"math"
	"strconv"

	"screentime-go/internal/dashboard"
	"screentime-go/internal/model"
	"screentime-go/internal/report"
	"screentime-go/internal/usage"
)

// ChartWidth is the widest bar drawn by ChildDetail, in characters.
const ChartWidth = 30

// Overview prints the greeting, summary header and one row per child.
func (p *Printer) Overview(ov *dashboard.Overview, parentName string) error {
	greeting := ov.Greeting
	if name := usage.FirstName(parentName); name != "" {
		greeting += ", " + name
	}
	p.Print("%s", p.Bold(greeting))
	p.Print("Today: %s  ·  %d on track  ·  %d need attention  ·  %d unread",
		usage.FormatMinutes(ov.Summary.TotalUsage), ov.Summary.OnTrack, ov.Summary.NeedsAttention, ov.Summary.Unread)

	if len(ov.Children) == 0 {
		p.Print("\nNo children yet. Add one with `screentime child add`.")
		return nil
	}

	p.Header("Children")
	t := NewTable(p.out, "ID", "Name", "Device", "Last seen", "Usage", "%", "Status", "Top apps")
	for _, c := range ov.Children {
		t.AddRow(
			c.Child.ID,
			c.Child.Avatar+" "+c.Child.Name,
			c.Child.DeviceName,
			c.Child.LastSeen,
			c.UsageText,
			percentCell(p, c),
			p.Status(c.Child.Status, c.StatusLabel),
			appNames(c.TopApps),
		)
	}
	return t.Render()
}

// ChildDetail prints one child's usage, weekly chart, apps and rules.
func (p *Printer) ChildDetail(d *dashboard.ChildDetail) error {
	c := d.Card.Child
	p.Print("%s %s  %s", c.Avatar, p.Bold(c.Name), p.Dim(fmt.Sprintf("%d · %s · %s", c.Age, c.Platform, c.DeviceName)))
	p.Print("%s used today (%d%%)  ·  %s", d.Card.UsageText, d.RoundedPct, p.Status(c.Status, d.Card.StatusLabel))

	p.Header("This week")
	for i, b := range d.WeeklyBars {
		bar := repeatChar('█', barWidth(b.Height, dashboard.BarHeight))
		label := b.Day
		if i == d.TodayIndex {
			label = p.Bold(label)
		}
		p.Print("%s %-*s %s", label, ChartWidth, bar, usage.FormatMinutes(b.Minutes))
	}
	p.Print("%s", p.Dim("Daily average: "+usage.FormatMinutes(d.WeeklyAverage)))

	if len(c.TopApps) > 0 {
		p.Header("Apps today")
		t := NewTable(p.out, "App", "Category", "Time")
		for _, a := range c.TopApps {
			t.AddRow(a.Icon+" "+a.Name, a.Category, usage.FormatMinutes(a.Usage))
		}
		if err := t.Render(); err != nil {
			return err
		}
	}

	if len(c.Rules) > 0 {
		p.Header("Rules")
		if err := p.Rules(c.Rules); err != nil {
			return err
		}
	}
	return nil
}

// Rules prints a rule table.
func (p *Printer) Rules(rules []model.Rule) error {
	t := NewTable(p.out, "ID", "Rule", "Value", "Enabled")
	for _, r := range rules {
		enabled := p.Dim("off")
		if r.Enabled {
			enabled = p.paintOK("on")
		}
		t.AddRow(r.ID, r.Label, r.Value, enabled)
	}
	return t.Render()
}

// Feed prints the notification feed, unread items first marked with "●".
func (p *Printer) Feed(f *dashboard.Feed) error {
	p.Print("%d unread", f.Unread)
	if len(f.Items) == 0 {
		return nil
	}
	t := NewTable(p.out, "", "Type", "Title", "Detail", "When")
	for _, item := range f.Items {
		n := item.Notification
		marker := " "
		if !n.Read {
			marker = "●"
		}
		t.AddRow(marker, item.Style.Icon, n.Title, n.Body, n.Time)
	}
	return t.Render()
}

// Report prints a weekly report.
func (p *Printer) Report(r *report.Report) error {
	p.Print("%s", p.Bold("Weekly report for "+r.ParentName))
	p.Print("Week ending %s  ·  total %s", r.WeekEnding, r.TotalText)

	t := NewTable(p.out, "Child", "Total", "Daily avg", "Busiest", "Over limit", "Top app", "Status")
	for _, c := range r.Children {
		busiest := "-"
		if c.BusiestDay != "" {
			busiest = c.BusiestDay + " " + usage.FormatMinutes(c.BusiestUsage)
		}
		top := "-"
		if c.TopApp != "" {
			top = c.TopApp + " " + usage.FormatMinutes(c.TopAppUsage)
		}
		t.AddRow(c.Name, c.WeekTotalText, c.AverageText, busiest, strconv.Itoa(c.DaysOverLimit), top, c.Status)
	}
	return t.Render()
}

func (p *Printer) paintOK(text string) string {
	return p.Status(model.StatusOK, text)
}

func percentCell(p *Printer, c dashboard.ChildCard) string {
	s := strconv.Itoa(usage.RoundPercent(c.Percent)) + "%"
	if c.NearLimit {
		return p.Status(model.StatusWarning, s)
	}
	return s
}

func appNames(apps []model.AppUsageEntry) string {
	s := ""
	for i, a := range apps {
		if i > 0 {
			s += ", "
		}
		s += a.Name
	}
	return s
}

// barWidth scales a bar height in [0, maxHeight] to [0, ChartWidth].
func barWidth(height, maxHeight float64) int {
	if maxHeight <= 0 {
		return 0
	}
	return int(math.Round(height / maxHeight * ChartWidth))
}
