package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/shredspace/internal/core"
	"github.com/lumipallolabs/shredspace/internal/model"
	"github.com/lumipallolabs/shredspace/internal/shred"
)

// Mode identifies what the keyboard is driving
type Mode int

const (
	ModeBrowse Mode = iota
	ModeSearch
	ModeConfirmShred
	ModeShredding
)

// coreEventMsg wraps a controller event for bubbletea
type coreEventMsg struct {
	ch <-chan core.Event
	ev core.Event
}

// coreDoneMsg is sent when a controller event channel closes
type coreDoneMsg struct{}

// App is the main application model
type App struct {
	ctrl *core.Controller
	keys KeyMap

	mode     Mode
	dir      string
	listing  model.Listing
	selected int
	offset   int
	width    int
	height   int

	sortKey model.SortKey
	filter  model.Category

	search      string
	searchInput textinput.Model

	scanPercent  int
	scanning     bool
	watching     bool
	scanBar      progress.Model
	shredPercent int
	shredBar     progress.Model
	shredReq     shred.Request

	status  string
	statErr bool
}

// NewApp creates the TUI application around a controller
func NewApp(ctrl *core.Controller, dir string) *App {
	if dir == "" {
		recents := ctrl.Settings().RecentDirs()
		if len(recents) > 0 {
			dir = recents[0]
		} else {
			dir = "."
		}
	}

	input := textinput.New()
	input.Prompt = "/"
	input.Placeholder = "name"
	input.CharLimit = 64

	return &App{
		ctrl:        ctrl,
		keys:        DefaultKeyMap(),
		dir:         dir,
		scanBar:     progress.New(progress.WithDefaultGradient()),
		shredBar:    progress.New(progress.WithSolidFill(string(ColorDanger))),
		searchInput: input,
	}
}

// Init starts the first scan
func (a *App) Init() tea.Cmd {
	return a.startScan()
}

// startScan kicks off a background scan of the current directory
func (a *App) startScan() tea.Cmd {
	events, err := a.ctrl.StartScan(context.Background(), a.dir)
	if err != nil {
		return func() tea.Msg { return coreEventMsg{ev: core.ErrorEvent{Err: err}} }
	}
	a.scanning = true
	a.scanPercent = 0
	return waitForEvent(events)
}

// startWatching subscribes to filesystem changes in the scanned directory
func (a *App) startWatching() tea.Cmd {
	events, err := a.ctrl.StartWatching()
	if err != nil || events == nil {
		a.watching = false
		return nil
	}
	return waitForEvent(events)
}

// waitForEvent reads the next controller event as a bubbletea message
func waitForEvent(ch <-chan core.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return coreDoneMsg{}
		}
		return coreEventMsg{ch: ch, ev: ev}
	}
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.scanBar.Width = msg.Width - 20
		a.shredBar.Width = msg.Width - 20
		return a, nil

	case coreDoneMsg:
		return a, nil

	case coreEventMsg:
		return a.handleCoreEvent(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

// handleCoreEvent folds a controller event into the view state
func (a *App) handleCoreEvent(msg coreEventMsg) (tea.Model, tea.Cmd) {
	switch ev := msg.ev.(type) {
	case core.ScanStartedEvent:
		a.status = "Scanning " + ev.Dir

	case core.ScanProgressEvent:
		a.scanPercent = ev.Percent

	case core.ScanCompletedEvent:
		a.scanning = false
		if ev.Err != nil {
			a.setError(ev.Err.Error())
			break
		}
		a.listing = ev.Listing.Filter(a.filter).Search(a.search)
		a.clampSelection()
		a.status = fmt.Sprintf("%d files, %s", len(a.listing.Entries), FormatSize(a.listing.TotalSize()))
		a.statErr = false
		if !a.watching {
			a.watching = true
			return a, tea.Batch(waitForEvent(msg.ch), a.startWatching())
		}

	case core.DirChangedEvent:
		// Something changed under us; re-list unless a scan is running
		if !a.scanning && a.mode == ModeBrowse {
			return a, tea.Batch(waitForEvent(msg.ch), a.startScan())
		}

	case core.ShredProgressEvent:
		a.shredPercent = ev.Percent

	case core.ShredCompletedEvent:
		a.mode = ModeBrowse
		out := ev.Outcome
		switch {
		case out.OK:
			a.status = fmt.Sprintf("Destroyed %s (%d passes)", ev.Path, out.PassesCompleted)
			a.statErr = false
			return a, a.startScan()
		case out.Kind == shred.FailPartialErase:
			a.setError("PARTIAL ERASE: content destroyed but entry remains: " + ev.Path)
		default:
			a.setError(fmt.Sprintf("Shred failed after %d/%d passes: %v",
				out.PassesCompleted, out.TotalPasses, out.Err))
		}

	case core.ErrorEvent:
		a.setError(ev.Err.Error())
	}

	if msg.ch != nil {
		return a, waitForEvent(msg.ch)
	}
	return a, nil
}

// handleKey dispatches keyboard input by mode
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.mode == ModeSearch {
		// All keys feed the query field; quit stays reachable from browse
		return a.handleSearchKey(msg)
	}

	if key.Matches(msg, a.keys.Quit) && a.mode != ModeConfirmShred {
		return a, tea.Quit
	}

	switch a.mode {
	case ModeConfirmShred:
		return a.handleConfirmKey(msg)
	case ModeShredding:
		// Ignore input while an erase is running; it cannot be cancelled
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Up):
		a.moveSelection(-1)
	case key.Matches(msg, a.keys.Down):
		a.moveSelection(1)
	case key.Matches(msg, a.keys.Top):
		a.selected = 0
	case key.Matches(msg, a.keys.Bottom):
		a.selected = len(a.listing.Entries) - 1
	case key.Matches(msg, a.keys.Rescan):
		return a, a.startScan()
	case key.Matches(msg, a.keys.CycleSort):
		return a.cycleSort()
	case key.Matches(msg, a.keys.CycleFilter):
		a.cycleFilter()
	case key.Matches(msg, a.keys.Search):
		a.mode = ModeSearch
		a.searchInput.Focus()
		return a, textinput.Blink
	case key.Matches(msg, a.keys.Shred):
		a.openShredDialog()
	}

	a.clampSelection()
	return a, nil
}

// handleSearchKey narrows the listing as the query is typed.
// Enter keeps the query active, escape clears it.
func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.search = ""
		a.searchInput.SetValue("")
		a.searchInput.Blur()
		a.mode = ModeBrowse
		a.listing = a.ctrl.FilteredListing()
		a.clampSelection()
		return a, nil
	case tea.KeyEnter:
		a.searchInput.Blur()
		a.mode = ModeBrowse
		return a, nil
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	a.search = a.searchInput.Value()
	a.listing = a.ctrl.FilteredListing().Search(a.search)
	a.clampSelection()
	return a, cmd
}

// handleConfirmKey handles the shred confirmation dialog
func (a *App) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.mode = ModeBrowse
		a.status = "Shred cancelled"
		a.statErr = false

	case key.Matches(msg, a.keys.CycleMethod):
		a.shredReq.Method = nextMethod(a.shredReq.Method)

	case key.Matches(msg, a.keys.MorePasses):
		if a.shredReq.Passes < shred.MaxPasses {
			a.shredReq.Passes++
		}

	case key.Matches(msg, a.keys.FewerPasses):
		if a.shredReq.Passes > shred.MinPasses {
			a.shredReq.Passes--
		}

	case key.Matches(msg, a.keys.Confirm):
		events, err := a.ctrl.StartShred(context.Background(), a.shredReq)
		if err != nil {
			a.mode = ModeBrowse
			a.setError(err.Error())
			return a, nil
		}
		a.mode = ModeShredding
		a.shredPercent = 0
		return a, waitForEvent(events)
	}

	return a, nil
}

// openShredDialog prepares the confirmation dialog for the selection
func (a *App) openShredDialog() {
	if len(a.listing.Entries) == 0 {
		return
	}
	entry := a.listing.Entries[a.selected]
	a.shredReq = a.ctrl.DefaultRequest(entry.Path)
	a.mode = ModeConfirmShred
}

// cycleSort advances to the next sort key and re-reads the directory
func (a *App) cycleSort() (tea.Model, tea.Cmd) {
	a.sortKey = (a.sortKey + 1) % 4
	listing, err := a.ctrl.ListSorted(a.sortKey)
	if err != nil {
		a.setError(err.Error())
		return a, nil
	}
	a.listing = listing.Filter(a.filter).Search(a.search)
	a.clampSelection()
	a.status = "Sorted by " + a.sortKey.String()
	a.statErr = false
	return a, nil
}

// cycleFilter advances to the next category filter
func (a *App) cycleFilter() {
	a.filter = (a.filter + 1) % 4
	a.ctrl.SetFilter(a.filter)
	a.listing = a.ctrl.FilteredListing().Search(a.search)
	a.clampSelection()
	a.status = "Filter: " + a.filter.String()
	a.statErr = false
}

// nextMethod cycles through the erase methods
func nextMethod(m shred.Method) shred.Method {
	switch m {
	case shred.MethodZero:
		return shred.MethodRandom
	case shred.MethodRandom:
		return shred.MethodDoD
	case shred.MethodDoD:
		return shred.MethodAES
	default:
		return shred.MethodZero
	}
}

func (a *App) moveSelection(delta int) {
	a.selected += delta
	a.clampSelection()
}

func (a *App) clampSelection() {
	if a.selected >= len(a.listing.Entries) {
		a.selected = len(a.listing.Entries) - 1
	}
	if a.selected < 0 {
		a.selected = 0
	}
}

func (a *App) setError(s string) {
	a.status = s
	a.statErr = true
}

// truncate shortens s to max runes with an ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// View renders the application
func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	header := fmt.Sprintf(" shredspace: %s ", a.dir)
	b.WriteString(HeaderStyle.Width(a.width).Render(header))
	b.WriteString("\n")

	if a.scanning {
		b.WriteString(fmt.Sprintf(" Scanning %s\n", a.scanBar.ViewAs(float64(a.scanPercent)/100)))
	}

	if a.mode == ModeSearch || a.search != "" {
		b.WriteString(" " + a.searchInput.View() + "\n")
	}

	b.WriteString(a.renderList())
	b.WriteString("\n")

	switch {
	case a.mode == ModeConfirmShred:
		b.WriteString(a.renderShredDialog())
	case a.mode == ModeShredding:
		b.WriteString(fmt.Sprintf(" Shredding %s %s\n",
			a.shredReq.Path, a.shredBar.ViewAs(float64(a.shredPercent)/100)))
	}

	statusStyle := StatusStyle
	if a.statErr {
		statusStyle = ErrorStyle
	}
	b.WriteString(statusStyle.Render(" " + a.status))
	b.WriteString("\n")
	b.WriteString(StatusStyle.Render(" ↑/↓ move · r rescan · s sort · f filter · / search · x shred · q quit"))

	return b.String()
}

// renderList draws the file listing with the selection highlighted
func (a *App) renderList() string {
	visible := a.height - 8
	if visible < 3 {
		visible = 3
	}

	if a.selected < a.offset {
		a.offset = a.selected
	}
	if a.selected >= a.offset+visible {
		a.offset = a.selected - visible + 1
	}

	var rows []string
	end := a.offset + visible
	if end > len(a.listing.Entries) {
		end = len(a.listing.Entries)
	}
	for i := a.offset; i < end; i++ {
		entry := a.listing.Entries[i]
		row := fmt.Sprintf("%-40s %10s", truncate(entry.Name, 40), FormatSize(entry.Size))
		if i == a.selected {
			rows = append(rows, ListItemSelected.Render(row))
		} else {
			rows = append(rows, ListItemStyle.Render(row))
		}
	}
	if len(rows) == 0 {
		rows = append(rows, StatusStyle.Render("(no files)"))
	}

	return ListPanelStyle.Width(a.width - 4).Render(strings.Join(rows, "\n"))
}

// renderShredDialog draws the destruction confirmation overlay
func (a *App) renderShredDialog() string {
	lines := []string{
		WarningStyle.Render("DESTROY FILE - THIS CANNOT BE UNDONE"),
		"",
		"File:   " + a.shredReq.Path,
		fmt.Sprintf("Method: %s (m to change)", a.shredReq.Method),
		fmt.Sprintf("Passes: %d (+/- to change, %d used)",
			a.shredReq.Passes, a.shredReq.Method.PassCount(a.shredReq.Passes)),
		"",
		"enter confirm · esc cancel",
	}
	return DialogStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)) + "\n"
}
