package progress

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func collect(m *Monitor) *[]Event {
	events := &[]Event{}
	m.AddCallback(func(e Event) {
		*events = append(*events, e)
	})
	return events
}

func TestMonitorLifecycle(t *testing.T) {
	m := NewMonitor()
	events := collect(m)

	m.Start("customer", 100)
	m.Update(50, "halfway")
	m.Complete("")

	if len(*events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(*events))
	}
	got := []EventType{(*events)[0].Type, (*events)[1].Type, (*events)[2].Type}
	want := []EventType{EventStarted, EventProgress, EventCompleted}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	progress := (*events)[1]
	if progress.Percentage != 50 {
		t.Errorf("expected 50%%, got %.1f", progress.Percentage)
	}
	if progress.Table != "customer" || progress.Current != 50 || progress.Total != 100 {
		t.Errorf("unexpected progress event: %+v", progress)
	}
	if (*events)[2].Message != "generation completed" {
		t.Errorf("default completion message missing: %q", (*events)[2].Message)
	}
	if m.Running() {
		t.Error("monitor should stop after Complete")
	}
}

func TestMonitorUpdateBeforeStartIsNoop(t *testing.T) {
	m := NewMonitor()
	events := collect(m)
	m.Update(10, "early")
	if len(*events) != 0 {
		t.Fatalf("expected no events, got %d", len(*events))
	}
}

func TestMonitorCompleteTwiceEmitsOnce(t *testing.T) {
	m := NewMonitor()
	events := collect(m)
	m.Start("", 10)
	m.Complete("done")
	m.Complete("done again")
	if len(*events) != 2 {
		t.Fatalf("expected start+complete, got %d events", len(*events))
	}
}

func TestMonitorCancel(t *testing.T) {
	m := NewMonitor()
	events := collect(m)

	m.Start("account", 10)
	m.Cancel()

	if m.Running() {
		t.Error("cancel must stop the run")
	}
	if !m.Cancelled() {
		t.Error("cancelled flag not set")
	}
	last := (*events)[len(*events)-1]
	if last.Type != EventCancelled {
		t.Errorf("expected cancelled event, got %s", last.Type)
	}

	m.Cancel()
	if len(*events) != 2 {
		t.Errorf("second cancel must be a no-op, got %d events", len(*events))
	}
}

func TestMonitorBatchAccumulates(t *testing.T) {
	m := NewMonitor()
	m.Start("transaction", 100)
	m.BatchCompleted(25, 1)
	m.BatchCompleted(25, 2)

	s := m.Snapshot()
	if s.Completed != 50 {
		t.Errorf("expected 50 completed, got %d", s.Completed)
	}
	if s.Percentage != 50 {
		t.Errorf("expected 50%%, got %.1f", s.Percentage)
	}

	history := m.History()
	last := history[len(history)-1]
	if last.Metadata["batch_num"] != 2 {
		t.Errorf("batch metadata missing: %v", last.Metadata)
	}
}

func TestMonitorTableEvents(t *testing.T) {
	m := NewMonitor()
	events := collect(m)

	m.Start("", 0)
	m.TableStarted("loan", 20)
	m.TableCompleted("loan", 20)

	if s := m.Snapshot(); s.Table != "loan" {
		t.Errorf("current table not tracked: %q", s.Table)
	}
	done := (*events)[2]
	if done.Type != EventTableCompleted || done.Percentage != 100 {
		t.Errorf("unexpected table completion: %+v", done)
	}
}

func TestMonitorValidationEvents(t *testing.T) {
	m := NewMonitor()
	events := collect(m)

	m.Start("customer", 10)
	m.ValidationStarted(10)
	m.ValidationCompleted(10, false, 3)

	last := (*events)[len(*events)-1]
	if last.Type != EventValidationCompleted {
		t.Fatalf("expected validation completion, got %s", last.Type)
	}
	if !strings.Contains(last.Message, "3 errors") {
		t.Errorf("failure message should carry the count: %q", last.Message)
	}
	if valid, _ := last.Metadata["valid"].(bool); valid {
		t.Error("metadata should record the failure")
	}
}

func TestMonitorPanickingCallbackIsContained(t *testing.T) {
	m := NewMonitor()
	m.AddCallback(func(Event) {
		panic("broken callback")
	})
	events := collect(m)

	m.Start("customer", 5)
	m.Complete("")

	if len(*events) != 2 {
		t.Fatalf("later callbacks must still run, got %d events", len(*events))
	}
}

func TestMonitorHistoryCapped(t *testing.T) {
	m := NewMonitor()
	m.Start("customer", 2000)
	for i := 1; i <= 1100; i++ {
		m.Update(i, fmt.Sprintf("row %d", i))
	}

	history := m.History()
	if len(history) != 1000 {
		t.Fatalf("expected history capped at 1000, got %d", len(history))
	}
	if history[0].Message != "row 101" {
		t.Errorf("oldest retained event wrong: %q", history[0].Message)
	}
	if history[len(history)-1].Message != "row 1100" {
		t.Errorf("newest event wrong: %q", history[len(history)-1].Message)
	}
}

func TestMonitorErrorStopsRun(t *testing.T) {
	m := NewMonitor()
	events := collect(m)

	m.Start("customer", 10)
	m.Error("strategy blew up", fmt.Errorf("bad params"))

	if m.Running() {
		t.Error("error must stop the run")
	}
	last := (*events)[len(*events)-1]
	if last.Type != EventError {
		t.Fatalf("expected error event, got %s", last.Type)
	}
	if last.Metadata["cause"] != "bad params" {
		t.Errorf("cause not recorded: %v", last.Metadata)
	}
}

func TestEventString(t *testing.T) {
	e := Event{Type: EventProgress, Percentage: 42.5, Message: "generating rows", Current: 425, Total: 1000}
	if got := e.String(); got != "[42.5%] generating rows (425/1000)" {
		t.Errorf("unexpected format: %q", got)
	}
	e = Event{Type: EventCompleted, Message: "done"}
	if got := e.String(); got != "[completed] done" {
		t.Errorf("unexpected format: %q", got)
	}
}

func TestMonitorSummary(t *testing.T) {
	m := NewMonitor()
	m.Start("customer", 100)
	m.Update(25, "")

	s := m.Summary()
	if !strings.Contains(s, "running") {
		t.Errorf("summary should report status: %s", s)
	}
	if !strings.Contains(s, "25/100 (25.0%)") {
		t.Errorf("summary should report rows: %s", s)
	}
}

func TestPercentageAndEstimate(t *testing.T) {
	if p := percentage(50, 100); p != 50 {
		t.Errorf("expected 50, got %.1f", p)
	}
	if p := percentage(1, 0); p != 0 {
		t.Errorf("zero total must yield 0, got %.1f", p)
	}
	if eta := estimate(10*time.Second, 5, 10); eta != 10*time.Second {
		t.Errorf("expected 10s, got %s", eta)
	}
	if eta := estimate(10*time.Second, 0, 10); eta != 0 {
		t.Errorf("no completions means no estimate, got %s", eta)
	}
	if eta := estimate(10*time.Second, 10, 10); eta != 0 {
		t.Errorf("finished run has no remaining time, got %s", eta)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{1500 * time.Millisecond, "1.5s"},
		{125 * time.Second, "2m 5s"},
		{3725 * time.Second, "1h 2m 5s"},
	}
	for _, c := range cases {
		if got := formatDuration(c.d); got != c.want {
			t.Errorf("%s: expected %q, got %q", c.d, c.want, got)
		}
	}
}
