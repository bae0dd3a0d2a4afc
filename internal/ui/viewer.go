package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"testmap/internal/audit"
	"testmap/internal/domain"
	"testmap/internal/storage"
)

// Viewer displays results in an interactive TUI
type Viewer interface {
	View() error
}

// Item is one row of the interactive list
type Item struct {
	Title    string
	Stats    string // tview color tags allowed
	Details  string // tview color tags allowed
	Resolved bool
}

// listView is the two-pane layout shared by the failure and audit viewers:
// items on the left, details on the right.
type listView struct {
	title    string
	items    []Item
	onToggle func(index int, resolved bool) error // nil disables the R key
}

func (lv *listView) run() error {
	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	itemText := func(index int) string {
		item := lv.items[index]
		if item.Resolved {
			return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, tview.Escape(item.Title))
		}
		return fmt.Sprintf("[yellow]%d.[white] %s", index+1, tview.Escape(item.Title))
	}
	for i := range lv.items {
		list.AddItem(itemText(i), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		keys := "Use ↑↓ to navigate, → to view details, ← to go back, Ctrl+C to exit"
		if lv.onToggle != nil {
			unresolved := 0
			for _, item := range lv.items {
				if !item.Resolved {
					unresolved++
				}
			}
			headerView.SetText(fmt.Sprintf(" %s (%d total, %d unresolved) | [yellow]R[white] to mark resolved, %s ",
				lv.title, len(lv.items), unresolved, keys))
			return
		}
		headerView.SetText(fmt.Sprintf(" %s (%d total) | %s ", lv.title, len(lv.items), keys))
	}
	updateHeader()

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(lv.items) {
			statsView.SetText(lv.items[index].Stats)
			detailsView.SetText(lv.items[index].Details).ScrollToBeginning()
		}
	}

	var saveErr error
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if lv.onToggle == nil || (event.Rune() != 'r' && event.Rune() != 'R') {
				return event
			}
			index := list.GetCurrentItem()
			if index < 0 || index >= len(lv.items) {
				return nil
			}
			lv.items[index].Resolved = !lv.items[index].Resolved
			list.SetItemText(index, itemText(index), "")
			updateHeader()
			updateDetails()
			if err := lv.onToggle(index, lv.items[index].Resolved); err != nil {
				saveErr = err
				app.Stop()
			}
			return nil
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if saveErr != nil {
		return fmt.Errorf("failed to save resolved status: %w", saveErr)
	}
	return nil
}

// FailureViewer displays run failures and lets the user mark them resolved
type FailureViewer struct {
	results *domain.RunOutput
	storage storage.Storage
}

// NewFailureViewer creates a new FailureViewer
func NewFailureViewer(results *domain.RunOutput, st storage.Storage) *FailureViewer {
	return &FailureViewer{results: results, storage: st}
}

// View runs the TUI. Toggling resolved state is written back through storage.
func (fv *FailureViewer) View() error {
	if len(fv.results.Details) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}
	lv := &listView{
		title: "Test Failures",
		items: FailureItems(fv.results.Details),
		onToggle: func(index int, resolved bool) error {
			fv.results.Details[index].Resolved = resolved
			return fv.storage.SaveRunOutput(fv.results)
		},
	}
	return lv.run()
}

// FailureItems renders failures as list items
func FailureItems(failures []domain.TestFailure) []Item {
	items := make([]Item, len(failures))
	for i, failure := range failures {
		name := failure.TestName
		if name == "" {
			name = fmt.Sprintf("Test %d", i+1)
		}
		pkg := failure.Package
		if pkg == "" {
			pkg = "Unknown package"
		}
		items[i] = Item{
			Title:    name,
			Stats:    fmt.Sprintf("[cyan]package:[white] [yellow]%s[white] [cyan]test:[white] [yellow]%s[white]\n", tview.Escape(pkg), tview.Escape(name)),
			Details:  formatFailureDetails(failure),
			Resolved: failure.Resolved,
		}
	}
	return items
}

// formatFailureDetails formats a test failure for display using tview color tags ([red], [cyan], etc.)
func formatFailureDetails(failure domain.TestFailure) string {
	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "[red]✗ Test: %s[white]\n\n", tview.Escape(failure.TestName))
	fmt.Fprintf(w, "[cyan]Package: %s[white]\n", tview.Escape(failure.Package))
	if failure.File != "" && failure.Line > 0 {
		fmt.Fprintf(w, "[yellow]Location: %s:%d[white]\n", tview.Escape(failure.File), failure.Line)
	}
	fmt.Fprintf(w, "\n")

	if failure.Message != "" {
		fmt.Fprintf(w, "[yellow]Message:[white]\n%s\n\n", tview.Escape(failure.Message))
	}

	if len(failure.Output) > 0 {
		const maxLines = 200
		fmt.Fprintf(w, "[yellow]Output:[white]\n")
		for i, line := range failure.Output {
			if i == maxLines {
				fmt.Fprintf(w, "  [gray]... and %d more lines[white]\n", len(failure.Output)-maxLines)
				break
			}
			fmt.Fprintf(w, "%s\n", tview.Escape(line))
		}
	}

	w.Flush()
	return builder.String()
}

// AuditViewer browses audit findings
type AuditViewer struct {
	report  audit.Report
	explain func(kind, name string) string
}

// Finding kinds passed to the explain callback
const (
	FindingFile     = "file"
	FindingFunction = "function"
)

// NewAuditViewer creates an AuditViewer. explain returns extra detail text for
// a finding and may be nil.
func NewAuditViewer(report audit.Report, explain func(kind, name string) string) *AuditViewer {
	return &AuditViewer{report: report, explain: explain}
}

// View runs the TUI
func (av *AuditViewer) View() error {
	items := av.Items()
	if len(items) == 0 {
		color.Green("✓ Every file maps to a test and every test maps to a file")
		return nil
	}
	lv := &listView{title: "Audit Findings", items: items}
	return lv.run()
}

// Items renders the report's findings as list items, files first
func (av *AuditViewer) Items() []Item {
	var items []Item
	add := func(kind, name, problem string) {
		details := fmt.Sprintf("[red]✗ %s[white]\n\n", problem)
		if av.explain != nil {
			details += tview.Escape(av.explain(kind, name))
		}
		items = append(items, Item{
			Title:   name,
			Stats:   fmt.Sprintf("[cyan]%s:[white] [yellow]%s[white]\n", kind, tview.Escape(name)),
			Details: details,
		})
	}
	for _, f := range av.report.FilesWithoutTests {
		add(FindingFile, f, "No test function is selected by this file")
	}
	for _, fn := range av.report.TestFunctionsWithoutFiles {
		add(FindingFunction, fn, "No file selects this test function")
	}
	return items
}
