package ui

import (
	"testing"
	"time"

	"gtr/internal/config"
	"gtr/internal/domain"
	"gtr/internal/storage"
)

// recordingStorage captures Save calls without touching the filesystem.
type recordingStorage struct {
	saves     int
	cancelled []bool
	results   [][]domain.TestResult
}

var _ storage.Storage = (*recordingStorage)(nil)

func (rs *recordingStorage) Save(results []domain.TestResult, duration time.Duration, cancelled bool) error {
	rs.saves++
	rs.cancelled = append(rs.cancelled, cancelled)
	rs.results = append(rs.results, results)
	return nil
}

func (rs *recordingStorage) Load() (*domain.RunOutput, error) {
	return &domain.RunOutput{}, nil
}

func (rs *recordingStorage) SaveOutput(output *domain.RunOutput) error {
	return nil
}

const (
	idOne = "example.com/a::TestOne"
	idTwo = "example.com/a::TestTwo"
)

// newTestSession builds a session with both pages constructed and two
// tests ticked. The widgets work without a terminal as long as messages
// are applied directly instead of going through the running application.
func newTestSession(t *testing.T) (*Session, *recordingStorage) {
	t.Helper()
	st := &recordingStorage{}
	s := NewSession(config.New(), st)
	ids := []string{idOne, idTwo}
	s.order = ids
	for _, id := range ids {
		s.checked[id] = true
	}
	s.buildSelectPage(ids)
	s.buildExecutePage()
	return s, st
}

func cellText(t *testing.T, s *Session, id string) string {
	t.Helper()
	row, ok := s.rows[id]
	if !ok {
		t.Fatalf("no row for %s", id)
	}
	return s.table.GetCell(row, 1).Text
}

func TestSession_RowBookkeeping(t *testing.T) {
	s, st := newTestSession(t)
	s.beginRun(s.selectedTests())

	if got := cellText(t, s, idOne); got != "-" {
		t.Errorf("expected placeholder row, got %q", got)
	}
	if !s.doneBtn.IsDisabled() {
		t.Error("done button should be disabled before any result")
	}

	s.apply(domain.Message{Reason: domain.ReasonRunning, TestName: idOne, CurrentIndex: 1, TotalTests: 2})
	if got := cellText(t, s, idOne); got != "running" {
		t.Errorf("expected running cell, got %q", got)
	}

	s.apply(domain.Message{Reason: domain.ReasonCompleted, TestName: idOne, Outcome: domain.OutcomePassed})
	if !s.doneBtn.IsDisabled() {
		t.Error("done button must stay disabled while a row is pending")
	}
	if st.saves != 0 {
		t.Errorf("no save expected before all rows are terminal, got %d", st.saves)
	}

	s.apply(domain.Message{Reason: domain.ReasonCompleted, TestName: idTwo, Outcome: domain.OutcomeFailed, Stdout: "boom"})
	if got := cellText(t, s, idOne); got != domain.OutcomePassed {
		t.Errorf("expected passed cell, got %q", got)
	}
	if got := cellText(t, s, idTwo); got != domain.OutcomeFailed {
		t.Errorf("expected failed cell, got %q", got)
	}
	if s.doneBtn.IsDisabled() {
		t.Error("done button should be enabled once every row is terminal")
	}
	if s.completed != s.total {
		t.Errorf("expected completed == total, got %d/%d", s.completed, s.total)
	}
	if st.saves != 1 || st.cancelled[0] {
		t.Errorf("expected one non-cancelled save, got saves=%d cancelled=%v", st.saves, st.cancelled)
	}
	if len(st.results[0]) != 2 {
		t.Errorf("expected 2 saved results, got %d", len(st.results[0]))
	}
}

func TestSession_CancelledMarksPendingRows(t *testing.T) {
	s, st := newTestSession(t)
	s.beginRun(s.selectedTests())

	s.apply(domain.Message{Reason: domain.ReasonRunning, TestName: idOne, CurrentIndex: 1, TotalTests: 2})
	s.apply(domain.Message{Reason: domain.ReasonCompleted, TestName: idOne, Outcome: domain.OutcomePassed})

	s.apply(domain.Message{Reason: domain.ReasonCancelled})

	if got := cellText(t, s, idOne); got != domain.OutcomePassed {
		t.Errorf("finished row must keep its outcome, got %q", got)
	}
	if got := cellText(t, s, idTwo); got != "cancelled" {
		t.Errorf("pending row should be marked cancelled, got %q", got)
	}
	if s.doneBtn.IsDisabled() {
		t.Error("done button should be enabled after a cancel")
	}
	if st.saves != 1 || !st.cancelled[0] {
		t.Errorf("expected one cancelled save, got saves=%d cancelled=%v", st.saves, st.cancelled)
	}
}

func TestSession_CancelledAfterCompletionIsIgnored(t *testing.T) {
	s, st := newTestSession(t)
	s.beginRun(s.selectedTests())

	s.apply(domain.Message{Reason: domain.ReasonCompleted, TestName: idOne, Outcome: domain.OutcomePassed})
	s.apply(domain.Message{Reason: domain.ReasonCompleted, TestName: idTwo, Outcome: domain.OutcomeFailed})
	if st.saves != 1 {
		t.Fatalf("expected one save after completion, got %d", st.saves)
	}

	// The terminal cancelled message of an idle Stop arrives after the
	// run already finished; it must not rewrite rows or re-save.
	s.apply(domain.Message{Reason: domain.ReasonCancelled})

	if got := cellText(t, s, idTwo); got != domain.OutcomeFailed {
		t.Errorf("completed row must keep its outcome, got %q", got)
	}
	if st.saves != 1 {
		t.Errorf("cancelled after completion must not save again, got %d saves", st.saves)
	}
}

func TestSession_ExecuteBlockedWhileStopping(t *testing.T) {
	s, _ := newTestSession(t)
	s.beginRun(s.selectedTests())
	s.apply(domain.Message{Reason: domain.ReasonRunning, TestName: idOne, CurrentIndex: 1, TotalTests: 2})

	s.cancelBack()
	if !s.stopping {
		t.Fatal("cancelBack should mark the session as stopping")
	}

	// A new run must not start until the cancelled message has been
	// applied; otherwise the stale message lands on the fresh rows.
	s.executeTests()
	if got := cellText(t, s, idOne); got != "running" {
		t.Errorf("executeTests must be a no-op while stopping, cell is %q", got)
	}

	s.apply(domain.Message{Reason: domain.ReasonCancelled})
	if s.stopping {
		t.Error("cancelled message should clear the stopping state")
	}
	if got := cellText(t, s, idTwo); got != "cancelled" {
		t.Errorf("pending row should be marked cancelled, got %q", got)
	}
}
