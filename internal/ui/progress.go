package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// ProgressLabels name what is being counted
type ProgressLabels struct {
	Title string // e.g. "Running tests"
	Pass  string // e.g. "success"
	Fail  string // e.g. "failed"
}

var (
	// RunLabels label a test run
	RunLabels = ProgressLabels{Title: "Running tests", Pass: "success", Fail: "failed"}
	// AuditLabels label a coverage audit
	AuditLabels = ProgressLabels{Title: "Auditing files", Pass: "covered", Fail: "uncovered"}
)

// ProgressBar creates and manages progress bars
type ProgressBar struct {
	bar    *progressbar.ProgressBar
	labels ProgressLabels
}

// NewProgressBar creates a new progress bar on stderr
func NewProgressBar(count int, labels ProgressLabels) *ProgressBar {
	p := &ProgressBar{labels: labels}
	p.bar = progressbar.NewOptions(count,
		progressbar.OptionSetDescription(p.describe(0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return p
}

// Update moves the bar to completed items and shows pass and fail counts
func (p *ProgressBar) Update(completed, passed, failed int) {
	p.bar.Set(completed)
	p.bar.Describe(p.describe(passed, failed))
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	p.bar.Finish()
}

func (p *ProgressBar) describe(passed, failed int) string {
	return color.CyanString(p.labels.Title+": ") +
		color.GreenString("[%s: %d", p.labels.Pass, passed) +
		" | " +
		color.RedString("%s: %d]", p.labels.Fail, failed)
}
