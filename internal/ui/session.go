package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"gtr/internal/config"
	"gtr/internal/discovery"
	"gtr/internal/domain"
	"gtr/internal/runner"
	"gtr/internal/storage"
)

// nodeRef is attached to tree nodes to identify what they represent.
type nodeRef struct {
	id   string // test identifier for leaves, package path for branches
	leaf bool
}

// Session drives the interactive two-step test run: select tests in a
// checkable tree, then watch a results table and log fill in as progress
// messages arrive. All display state (row indexes, counters) lives on the
// session and is only touched on the UI goroutine via QueueUpdateDraw.
type Session struct {
	config  *config.Config
	runner  *runner.Runner
	storage storage.Storage

	app       *tview.Application
	pages     *tview.Pages
	tree      *tview.TreeView
	table     *tview.Table
	logView   *tview.TextView
	statusBar *tview.TextView
	doneBtn   *tview.Button

	checked map[string]bool
	order   []string // discovery order of identifiers

	// stopping is set by cancelBack and cleared when its cancelled
	// message arrives; no new run may start in between, or the stale
	// cancelled message would land on the new run's rows.
	stopping bool

	// Execution state for the current run
	rows      map[string]int
	total     int
	completed int
	results   []domain.TestResult
	startedAt time.Time
}

// NewSession creates a Session. The runner is constructed here so its
// monitor delivers messages straight into the session.
func NewSession(cfg *config.Config, st storage.Storage) *Session {
	s := &Session{
		config:  cfg,
		storage: st,
		app:     tview.NewApplication(),
		checked: make(map[string]bool),
		rows:    make(map[string]int),
	}
	s.runner = runner.New(cfg, s.handleMessage)
	return s
}

// Run discovers tests and runs the interactive session until the user
// quits.
func (s *Session) Run(ctx context.Context) error {
	testPath := s.config.GetTestPath()
	fmt.Printf("Discovering tests under %s ...\n", testPath)

	tests := s.runner.Discover(ctx, testPath)
	if len(tests) == 0 {
		color.Yellow("No tests found under %s", testPath)
		return nil
	}
	s.order = tests
	for _, id := range tests {
		s.checked[id] = true // everything ticked by default
	}

	s.buildSelectPage(tests)
	s.buildExecutePage()

	if err := s.app.SetRoot(s.pages, true).SetFocus(s.tree).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// buildSelectPage constructs the checkable tree step.
func (s *Session) buildSelectPage(tests []string) {
	root := tview.NewTreeNode("test cases").SetColor(tcell.ColorDarkCyan)

	for _, group := range discovery.GroupByPackage(tests) {
		branch := tview.NewTreeNode(group.Package).
			SetReference(&nodeRef{id: group.Package}).
			SetColor(tcell.ColorYellow).
			SetSelectable(true)
		for _, test := range group.Tests {
			leaf := tview.NewTreeNode(s.leafText(test.ID(), test.Name)).
				SetReference(&nodeRef{id: test.ID(), leaf: true}).
				SetSelectable(true)
			branch.AddChild(leaf)
		}
		root.AddChild(branch)
	}

	s.tree = tview.NewTreeView().
		SetRoot(root).
		SetCurrentNode(root)
	s.tree.SetSelectedFunc(s.toggleNode)
	s.tree.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyRune && event.Rune() == 'x':
			s.executeTests()
			return nil
		case event.Key() == tcell.KeyRune && event.Rune() == 'q', event.Key() == tcell.KeyCtrlC:
			s.app.Stop()
			return nil
		}
		return event
	})

	header := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(" Select tests | ↑↓ navigate, Enter to tick/untick, [yellow]X[white] to execute, [yellow]Q[white] to quit ")

	executeBtn := tview.NewButton("Execute tests").SetSelectedFunc(s.executeTests)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 1, 0, false).
		AddItem(s.tree, 0, 1, true).
		AddItem(executeBtn, 1, 0, false)

	s.pages = tview.NewPages().AddPage("select", layout, true, true)
}

// buildExecutePage constructs the results table step.
func (s *Session) buildExecutePage() {
	s.table = tview.NewTable().SetSelectable(false, false)
	s.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	s.logView.SetBorder(true).SetTitle(" log ")
	s.statusBar = tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)
	s.doneBtn = tview.NewButton("Done").SetSelectedFunc(s.finishRun)
	s.doneBtn.SetDisabled(true)

	cancelBtn := tview.NewButton("Cancel/Back").SetSelectedFunc(s.cancelBack)

	buttons := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(s.doneBtn, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false).
		AddItem(cancelBtn, 0, 1, false)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(s.statusBar, 1, 0, false).
		AddItem(s.table, 0, 2, true).
		AddItem(s.logView, 0, 1, false).
		AddItem(buttons, 1, 0, false)

	layout.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyRune && event.Rune() == 'd':
			s.finishRun()
			return nil
		case event.Key() == tcell.KeyRune && event.Rune() == 'c', event.Key() == tcell.KeyEsc:
			s.cancelBack()
			return nil
		case event.Key() == tcell.KeyCtrlC:
			s.cancelBack()
			return nil
		}
		return event
	})

	s.pages.AddPage("execute", layout, true, false)
}

// leafText renders the tick state prefix of a leaf node.
func (s *Session) leafText(id, name string) string {
	if s.checked[id] {
		return "[x] " + name
	}
	return "[ ] " + name
}

// toggleNode flips the tick of a leaf, or of all leaves of a branch.
func (s *Session) toggleNode(node *tview.TreeNode) {
	ref, ok := node.GetReference().(*nodeRef)
	if !ok {
		node.SetExpanded(!node.IsExpanded())
		return
	}

	if ref.leaf {
		test, _ := domain.ParseID(ref.id)
		s.checked[ref.id] = !s.checked[ref.id]
		node.SetText(s.leafText(ref.id, test.Name))
		return
	}

	// Branch: tick all children if any is unticked, otherwise untick all.
	anyUnticked := false
	for _, child := range node.GetChildren() {
		if childRef, ok := child.GetReference().(*nodeRef); ok && !s.checked[childRef.id] {
			anyUnticked = true
			break
		}
	}
	for _, child := range node.GetChildren() {
		childRef, ok := child.GetReference().(*nodeRef)
		if !ok {
			continue
		}
		s.checked[childRef.id] = anyUnticked
		test, _ := domain.ParseID(childRef.id)
		child.SetText(s.leafText(childRef.id, test.Name))
	}
}

// selectedTests returns the checked leaf identifiers in discovery order.
func (s *Session) selectedTests() []string {
	var selected []string
	for _, id := range s.order {
		if s.checked[id] {
			selected = append(selected, id)
		}
	}
	return selected
}

// executeTests starts a run over the checked tests and switches to the
// execute step.
func (s *Session) executeTests() {
	if s.stopping {
		return
	}
	selected := s.selectedTests()
	if len(selected) == 0 {
		return
	}

	s.beginRun(selected)

	if err := s.runner.Start(selected, nil, nil); err != nil {
		s.statusBar.SetText(fmt.Sprintf(" [red]%v[white] ", err))
	}
}

// beginRun resets the execution state, fills the table with placeholder
// rows and switches to the execute step.
func (s *Session) beginRun(selected []string) {
	s.rows = make(map[string]int)
	s.total = len(selected)
	s.completed = 0
	s.results = nil
	s.startedAt = time.Now()
	s.table.Clear()
	s.logView.Clear()
	s.doneBtn.SetDisabled(true)

	s.table.SetCell(0, 0, tview.NewTableCell("Test case").SetTextColor(tcell.ColorDarkCyan).SetExpansion(1).SetSelectable(false))
	s.table.SetCell(0, 1, tview.NewTableCell("Result").SetTextColor(tcell.ColorDarkCyan).SetSelectable(false))
	for i, id := range selected {
		row := i + 1
		s.rows[id] = row
		s.table.SetCell(row, 0, tview.NewTableCell(id).SetExpansion(1))
		s.table.SetCell(row, 1, tview.NewTableCell("-"))
	}

	s.statusBar.SetText(fmt.Sprintf(" Running 0/%d ", s.total))
	s.pages.SwitchToPage("execute")
}

// cancelBack stops the current run and returns to the select step.
func (s *Session) cancelBack() {
	s.stopping = true
	// Stop waits for the monitor, which may be blocked handing a message
	// to the UI goroutine, so it must not run on the UI goroutine itself.
	go s.runner.Stop()
	s.pages.SwitchToPage("select")
	s.app.SetFocus(s.tree)
}

// finishRun leaves the execute step once the run has completed.
func (s *Session) finishRun() {
	if s.completed < s.total {
		return
	}
	s.pages.SwitchToPage("select")
	s.app.SetFocus(s.tree)
}

// handleMessage is the runner callback. It runs on the monitor goroutine
// and hands the message to the UI goroutine.
func (s *Session) handleMessage(message domain.Message) {
	s.app.QueueUpdateDraw(func() {
		s.apply(message)
	})
}

// apply updates the display state for one progress message.
func (s *Session) apply(message domain.Message) {
	switch message.Reason {
	case domain.ReasonRunning:
		if row, ok := s.rows[message.TestName]; ok {
			s.table.SetCell(row, 1, tview.NewTableCell("running").SetTextColor(tcell.ColorYellow))
		}
		s.statusBar.SetText(fmt.Sprintf(" Running %d/%d: %s ", message.CurrentIndex, message.TotalTests, message.TestName))

	case domain.ReasonCompleted:
		if row, ok := s.rows[message.TestName]; ok {
			s.table.SetCell(row, 1, tview.NewTableCell(message.Outcome).SetTextColor(outcomeColor(message.Outcome)))
		}
		if test, ok := domain.ParseID(message.TestName); ok {
			s.results = append(s.results, domain.TestResult{
				Test:     test,
				Outcome:  message.Outcome,
				Duration: message.Duration,
				Output:   message.Stdout,
			})
		}
		if message.Outcome == domain.OutcomeFailed && message.Stdout != "" {
			fmt.Fprintf(s.logView, "[red]✗ %s[white]\n%s\n", message.TestName, tview.Escape(message.Stdout))
			s.logView.ScrollToEnd()
		}
		s.completed++
		if s.completed == s.total {
			s.doneBtn.SetDisabled(false)
			s.statusBar.SetText(fmt.Sprintf(" Finished %d/%d ", s.completed, s.total))
			s.saveResults(false)
		}

	case domain.ReasonCancelled:
		s.stopping = false
		if s.completed >= s.total {
			// Nothing in flight; the terminal cancelled message of an idle
			// Stop must not overwrite an already saved run.
			return
		}
		for _, row := range s.rows {
			if cell := s.table.GetCell(row, 1); cell != nil && (cell.Text == "-" || cell.Text == "running") {
				s.table.SetCell(row, 1, tview.NewTableCell("cancelled").SetTextColor(tcell.ColorGray))
			}
		}
		s.statusBar.SetText(" Run cancelled ")
		s.completed = s.total
		s.doneBtn.SetDisabled(false)
		s.saveResults(true)

	case domain.ReasonError:
		fmt.Fprintf(s.logView, "[red]worker error:[white]\n%s\n", tview.Escape(message.Stderr))
		s.logView.ScrollToEnd()
		s.statusBar.SetText(" [red]Worker failed[white] ")

	case domain.ReasonLog:
		fmt.Fprint(s.logView, tview.Escape(message.Stdout))
		s.logView.ScrollToEnd()
	}
}

// saveResults persists what the run produced so far.
func (s *Session) saveResults(cancelled bool) {
	if s.storage == nil || len(s.results) == 0 && !cancelled {
		return
	}
	_ = s.storage.Save(s.results, time.Since(s.startedAt), cancelled)
}

func outcomeColor(outcome string) tcell.Color {
	switch outcome {
	case domain.OutcomePassed:
		return tcell.ColorGreen
	case domain.OutcomeSkipped:
		return tcell.ColorYellow
	default:
		return tcell.ColorRed
	}
}
