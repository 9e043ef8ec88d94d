// Package render draws attendance snapshots as calendar images suitable
// for chat delivery.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"runtime"
	"time"

	"amon/internal/attendance"

	"github.com/fogleman/gg"
)

// Grid styling constants, rendered at 2x scale for chat clarity.
const (
	cellWidth   = 150.0
	cellHeight  = 110.0
	dayNumSize  = 26
	weekdaySize = 24
	titleSize   = 40
	legendSize  = 22
	titleBand   = 100.0
	weekdayBand = 56.0
	legendBand  = 70.0
	monthGap    = 60.0
	sideMargin  = 40.0
	cellRadius  = 10.0
)

// Light theme colors.
var (
	bgColor      = color.RGBA{R: 245, G: 247, B: 250, A: 255}
	titleColor   = color.RGBA{R: 30, G: 41, B: 59, A: 255}
	weekdayColor = color.RGBA{R: 100, G: 116, B: 139, A: 255}
	dayNumColor  = color.RGBA{R: 30, G: 41, B: 59, A: 255}
	borderColor  = color.RGBA{R: 203, G: 213, B: 225, A: 255}
	outsideColor = color.RGBA{R: 238, G: 240, B: 244, A: 255}
)

// categoryColors fill the day cells. Halves get their own fill so a split
// day reads at a glance.
var categoryColors = map[attendance.Category]color.RGBA{
	attendance.CategoryNone:    {R: 255, G: 255, B: 255, A: 255},
	attendance.CategoryAbsent:  {R: 254, G: 202, B: 202, A: 255}, // red
	attendance.CategoryWeekend: {R: 226, G: 232, B: 240, A: 255}, // gray
	attendance.CategoryHoliday: {R: 221, G: 214, B: 254, A: 255}, // violet
	attendance.CategoryWFO:     {R: 187, G: 247, B: 208, A: 255}, // green
	attendance.CategoryWFH:     {R: 191, G: 219, B: 254, A: 255}, // blue
	attendance.CategoryOther:   {R: 254, G: 240, B: 138, A: 255}, // yellow
}

var legendOrder = []attendance.Category{
	attendance.CategoryWFO,
	attendance.CategoryWFH,
	attendance.CategoryAbsent,
	attendance.CategoryWeekend,
	attendance.CategoryHoliday,
	attendance.CategoryOther,
}

var weekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// findFont locates a usable font file across Linux and Windows paths.
func findFont(bold bool) string {
	var candidates []string
	if runtime.GOOS == "windows" {
		winRoot := os.Getenv("WINDIR")
		if winRoot == "" {
			winRoot = `C:\Windows`
		}
		if bold {
			candidates = []string{winRoot + `\Fonts\arialbd.ttf`, winRoot + `\Fonts\Arial Bold.ttf`}
		} else {
			candidates = []string{winRoot + `\Fonts\arial.ttf`, winRoot + `\Fonts\Arial.ttf`}
		}
	} else {
		if bold {
			candidates = []string{
				"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
				"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
			}
		} else {
			candidates = []string{
				"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
				"/usr/share/fonts/TTF/DejaVuSans.ttf",
			}
		}
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return candidates[0]
}

// monthOf truncates a time to the first of its month.
func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// monthsSpanning lists each month touched by the snapshot window.
func monthsSpanning(from, to time.Time) []time.Time {
	var months []time.Time
	for m := monthOf(from); !m.After(to); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}

// mondayIndex maps time.Weekday onto a Monday-first column index.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// weekRows counts the grid rows a month needs.
func weekRows(month time.Time) int {
	daysInMonth := month.AddDate(0, 1, -1).Day()
	lead := mondayIndex(month.Weekday())
	return (lead + daysInMonth + 6) / 7
}

// RenderCalendar draws the snapshot as one stacked calendar grid per month
// in its window and returns PNG bytes. Days with differing halves are
// painted as a split cell, first half on top.
func RenderCalendar(snap *attendance.Snapshot) ([]byte, error) {
	if snap == nil || len(snap.Days) == 0 {
		return nil, fmt.Errorf("nothing to render: snapshot has no days")
	}

	months := monthsSpanning(snap.From, snap.To)
	if len(months) == 0 {
		return nil, fmt.Errorf("snapshot window is empty")
	}

	boldFont := findFont(true)
	regularFont := findFont(false)

	gridWidth := cellWidth * 7
	canvasWidth := gridWidth + sideMargin*2

	canvasHeight := titleBand
	for _, m := range months {
		canvasHeight += weekdayBand + float64(weekRows(m))*cellHeight + monthGap
	}
	canvasHeight += legendBand

	dc := gg.NewContext(int(canvasWidth), int(canvasHeight))
	dc.SetColor(bgColor)
	dc.Clear()

	if err := dc.LoadFontFace(boldFont, titleSize); err != nil {
		return nil, fmt.Errorf("loading bold font: %w", err)
	}
	dc.SetColor(titleColor)
	title := fmt.Sprintf("Attendance  %s — %s",
		snap.From.Format("02 Jan 2006"), snap.To.Format("02 Jan 2006"))
	dc.DrawStringAnchored(title, canvasWidth/2, titleBand/2, 0.5, 0.5)

	y := titleBand
	for _, m := range months {
		h, err := drawMonth(dc, snap, m, sideMargin, y, boldFont, regularFont)
		if err != nil {
			return nil, err
		}
		y += h + monthGap
	}

	if err := drawLegend(dc, sideMargin, canvasHeight-legendBand, regularFont); err != nil {
		return nil, err
	}

	return encodeImage(dc.Image())
}

func drawMonth(dc *gg.Context, snap *attendance.Snapshot, month time.Time, x, y float64, boldFont, regularFont string) (float64, error) {
	if err := dc.LoadFontFace(boldFont, weekdaySize); err != nil {
		return 0, fmt.Errorf("loading bold font: %w", err)
	}

	dc.SetColor(titleColor)
	dc.DrawString(month.Format("January 2006"), x, y+weekdaySize)

	dc.SetColor(weekdayColor)
	for i, label := range weekdayLabels {
		cx := x + float64(i)*cellWidth + cellWidth/2
		dc.DrawStringAnchored(label, cx, y+weekdayBand-8, 0.5, 1)
	}

	if err := dc.LoadFontFace(regularFont, dayNumSize); err != nil {
		return 0, fmt.Errorf("loading regular font: %w", err)
	}

	daysInMonth := month.AddDate(0, 1, -1).Day()
	lead := mondayIndex(month.Weekday())
	gridTop := y + weekdayBand

	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, month.Location())
		slot := lead + day - 1
		cx := x + float64(slot%7)*cellWidth
		cy := gridTop + float64(slot/7)*cellHeight
		drawDayCell(dc, snap, date, cx, cy)
	}

	rows := weekRows(month)
	dc.SetColor(borderColor)
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x, gridTop, cellWidth*7, float64(rows)*cellHeight, cellRadius)
	dc.Stroke()

	return weekdayBand + float64(rows)*cellHeight, nil
}

func drawDayCell(dc *gg.Context, snap *attendance.Snapshot, date time.Time, x, y float64) {
	entry, tracked := snap.Days[attendance.DateKey(date)]
	inWindow := attendance.InWindow(date, snap.From, snap.To)

	switch {
	case !inWindow:
		dc.SetColor(outsideColor)
		dc.DrawRectangle(x, y, cellWidth, cellHeight)
		dc.Fill()
	case !tracked:
		dc.SetColor(categoryColors[attendance.CategoryNone])
		dc.DrawRectangle(x, y, cellWidth, cellHeight)
		dc.Fill()
	case entry.FirstHalf == entry.SecondHalf:
		dc.SetColor(fillFor(entry.FirstHalf))
		dc.DrawRectangle(x, y, cellWidth, cellHeight)
		dc.Fill()
	default:
		dc.SetColor(fillFor(entry.FirstHalf))
		dc.DrawRectangle(x, y, cellWidth, cellHeight/2)
		dc.Fill()
		dc.SetColor(fillFor(entry.SecondHalf))
		dc.DrawRectangle(x, y+cellHeight/2, cellWidth, cellHeight/2)
		dc.Fill()
	}

	dc.SetColor(borderColor)
	dc.SetLineWidth(0.5)
	dc.DrawRectangle(x, y, cellWidth, cellHeight)
	dc.Stroke()

	dc.SetColor(dayNumColor)
	dc.DrawString(fmt.Sprintf("%d", date.Day()), x+10, y+dayNumSize+6)
}

func fillFor(cat attendance.Category) color.RGBA {
	if c, ok := categoryColors[cat]; ok {
		return c
	}
	return categoryColors[attendance.CategoryOther]
}

func drawLegend(dc *gg.Context, x, y float64, regularFont string) error {
	if err := dc.LoadFontFace(regularFont, legendSize); err != nil {
		return fmt.Errorf("loading regular font: %w", err)
	}

	const swatch = 24.0
	cx := x
	for _, cat := range legendOrder {
		dc.SetColor(categoryColors[cat])
		dc.DrawRoundedRectangle(cx, y, swatch, swatch, 5)
		dc.Fill()
		dc.SetColor(borderColor)
		dc.SetLineWidth(0.5)
		dc.DrawRoundedRectangle(cx, y, swatch, swatch, 5)
		dc.Stroke()

		label := string(cat)
		dc.SetColor(weekdayColor)
		dc.DrawString(label, cx+swatch+8, y+swatch-5)
		w, _ := dc.MeasureString(label)
		cx += swatch + w + 40
	}
	return nil
}

func encodeImage(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
