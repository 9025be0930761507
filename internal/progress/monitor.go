// Package progress tracks long generation runs and fans events out to
// registered callbacks. The core generators never import this package;
// the engine drives it between chunks.
package progress

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// EventType names what happened.
type EventType string

const (
	EventStarted             EventType = "started"
	EventProgress            EventType = "progress"
	EventTableStarted        EventType = "table_started"
	EventTableCompleted      EventType = "table_completed"
	EventBatchCompleted      EventType = "batch_completed"
	EventValidationStarted   EventType = "validation_started"
	EventValidationCompleted EventType = "validation_completed"
	EventCompleted           EventType = "completed"
	EventError               EventType = "error"
	EventCancelled           EventType = "cancelled"
)

// Event is one progress notification. Elapsed and ETA are only meaningful
// on events emitted after Start.
type Event struct {
	Type       EventType
	Timestamp  time.Time
	Table      string
	Current    int
	Total      int
	Percentage float64
	Message    string
	Elapsed    time.Duration
	ETA        time.Duration
	Metadata   map[string]interface{}
}

func (e Event) String() string {
	if e.Type == EventProgress {
		return fmt.Sprintf("[%.1f%%] %s (%d/%d)", e.Percentage, e.Message, e.Current, e.Total)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Callback receives every emitted event. A panicking callback is recovered
// and must not abort generation.
type Callback func(Event)

// Snapshot is a point-in-time view of the monitor state.
type Snapshot struct {
	Running    bool
	Cancelled  bool
	Table      string
	Completed  int
	Total      int
	Percentage float64
	Elapsed    time.Duration
	ETA        time.Duration
}

const maxHistory = 1000

// Monitor tracks one generation run. Safe for concurrent use; the history
// keeps at most the last 1000 events.
type Monitor struct {
	mu        sync.Mutex
	callbacks []Callback
	startTime time.Time
	running   bool
	cancelled bool
	table     string
	total     int
	completed int
	history   []Event
}

func NewMonitor() *Monitor {
	return &Monitor{}
}

// AddCallback registers cb for every subsequent event.
func (m *Monitor) AddCallback(cb Callback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, cb)
}

// Start begins a run. It resets any state left from a previous run.
func (m *Monitor) Start(table string, totalItems int) {
	m.mu.Lock()
	m.startTime = time.Now()
	m.running = true
	m.cancelled = false
	m.table = table
	m.total = totalItems
	m.completed = 0
	m.mu.Unlock()

	msg := fmt.Sprintf("starting generation (%d rows)", totalItems)
	if table != "" {
		msg = fmt.Sprintf("starting generation: %s (%d rows)", table, totalItems)
	}
	m.emit(Event{
		Type:      EventStarted,
		Timestamp: time.Now(),
		Table:     table,
		Total:     totalItems,
		Message:   msg,
	})
}

// Update reports completed items so far. No-op before Start or after the
// run ended.
func (m *Monitor) Update(completed int, message string) {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.completed = completed
	table := m.table
	total := m.total
	elapsed := time.Since(m.startTime)
	m.mu.Unlock()

	if message == "" {
		message = "generating rows"
	}
	m.emit(Event{
		Type:       EventProgress,
		Timestamp:  time.Now(),
		Table:      table,
		Current:    completed,
		Total:      total,
		Percentage: percentage(completed, total),
		Message:    message,
		Elapsed:    elapsed,
		ETA:        estimate(elapsed, completed, total),
	})
}

// TableStarted switches the monitor to a new table within the run.
func (m *Monitor) TableStarted(table string, totalItems int) {
	m.mu.Lock()
	m.table = table
	m.total = totalItems
	m.completed = 0
	m.mu.Unlock()

	m.emit(Event{
		Type:      EventTableStarted,
		Timestamp: time.Now(),
		Table:     table,
		Total:     totalItems,
		Message:   fmt.Sprintf("table %s started (%d rows)", table, totalItems),
	})
}

// TableCompleted reports a finished table.
func (m *Monitor) TableCompleted(table string, count int) {
	m.mu.Lock()
	elapsed := m.elapsedLocked()
	m.mu.Unlock()

	m.emit(Event{
		Type:       EventTableCompleted,
		Timestamp:  time.Now(),
		Table:      table,
		Current:    count,
		Total:      count,
		Percentage: 100,
		Message:    fmt.Sprintf("table %s completed (%d rows)", table, count),
		Elapsed:    elapsed,
	})
}

// BatchCompleted reports one finished chunk and advances the counter.
func (m *Monitor) BatchCompleted(batchSize, batchNum int) {
	m.mu.Lock()
	m.completed += batchSize
	completed := m.completed
	table := m.table
	total := m.total
	m.mu.Unlock()

	m.emit(Event{
		Type:       EventBatchCompleted,
		Timestamp:  time.Now(),
		Table:      table,
		Current:    completed,
		Total:      total,
		Percentage: percentage(completed, total),
		Message:    fmt.Sprintf("batch #%d completed (%d rows)", batchNum, batchSize),
		Metadata:   map[string]interface{}{"batch_size": batchSize, "batch_num": batchNum},
	})
}

// ValidationStarted reports that rule checking began.
func (m *Monitor) ValidationStarted(itemCount int) {
	m.mu.Lock()
	table := m.table
	m.mu.Unlock()

	m.emit(Event{
		Type:      EventValidationStarted,
		Timestamp: time.Now(),
		Table:     table,
		Total:     itemCount,
		Message:   fmt.Sprintf("validating %d rows", itemCount),
	})
}

// ValidationCompleted reports the rule-check outcome.
func (m *Monitor) ValidationCompleted(itemCount int, valid bool, errorCount int) {
	m.mu.Lock()
	table := m.table
	m.mu.Unlock()

	msg := "validation passed"
	if !valid {
		msg = fmt.Sprintf("validation failed (%d errors)", errorCount)
	}
	m.emit(Event{
		Type:       EventValidationCompleted,
		Timestamp:  time.Now(),
		Table:      table,
		Total:      itemCount,
		Percentage: 100,
		Message:    msg,
		Metadata:   map[string]interface{}{"valid": valid, "errors": errorCount},
	})
}

// Complete ends the run. No-op if the run already ended.
func (m *Monitor) Complete(message string) {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	table := m.table
	completed := m.completed
	total := m.total
	elapsed := time.Since(m.startTime)
	m.mu.Unlock()

	if message == "" {
		message = "generation completed"
	}
	m.emit(Event{
		Type:       EventCompleted,
		Timestamp:  time.Now(),
		Table:      table,
		Current:    completed,
		Total:      total,
		Percentage: 100,
		Message:    message,
		Elapsed:    elapsed,
	})
}

// Error reports a failure and ends the run.
func (m *Monitor) Error(message string, err error) {
	m.mu.Lock()
	m.running = false
	table := m.table
	m.mu.Unlock()

	var meta map[string]interface{}
	if err != nil {
		meta = map[string]interface{}{"cause": err.Error()}
	}
	m.emit(Event{
		Type:      EventError,
		Timestamp: time.Now(),
		Table:     table,
		Message:   fmt.Sprintf("error: %s", message),
		Metadata:  meta,
	})
}

// Cancel marks the run cancelled. No-op if the run already ended.
func (m *Monitor) Cancel() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.cancelled = true
	table := m.table
	completed := m.completed
	total := m.total
	m.mu.Unlock()

	m.emit(Event{
		Type:      EventCancelled,
		Timestamp: time.Now(),
		Table:     table,
		Current:   completed,
		Total:     total,
		Message:   "operation cancelled",
	})
}

// Running reports whether a run is in flight.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Cancelled reports whether the last run was cancelled.
func (m *Monitor) Cancelled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancelled
}

// History returns a copy of the retained events, oldest first.
func (m *Monitor) History() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.history))
	copy(out, m.history)
	return out
}

// Snapshot returns the current state.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	elapsed := m.elapsedLocked()
	return Snapshot{
		Running:    m.running,
		Cancelled:  m.cancelled,
		Table:      m.table,
		Completed:  m.completed,
		Total:      m.total,
		Percentage: percentage(m.completed, m.total),
		Elapsed:    elapsed,
		ETA:        estimate(elapsed, m.completed, m.total),
	}
}

// Summary renders a short human-readable progress block.
func (m *Monitor) Summary() string {
	s := m.Snapshot()

	status := "stopped"
	switch {
	case s.Running:
		status = "running"
	case s.Cancelled:
		status = "cancelled"
	}
	table := s.Table
	if table == "" {
		table = "-"
	}

	var b strings.Builder
	b.WriteString("Progress Summary\n")
	b.WriteString("================\n")
	fmt.Fprintf(&b, "Status:  %s\n", status)
	fmt.Fprintf(&b, "Table:   %s\n", table)
	fmt.Fprintf(&b, "Rows:    %d/%d (%.1f%%)\n", s.Completed, s.Total, s.Percentage)
	fmt.Fprintf(&b, "Elapsed: %s\n", formatDuration(s.Elapsed))
	if s.Running && s.ETA > 0 {
		fmt.Fprintf(&b, "ETA:     %s\n", formatDuration(s.ETA))
	}
	return b.String()
}

func (m *Monitor) elapsedLocked() time.Duration {
	if m.startTime.IsZero() {
		return 0
	}
	return time.Since(m.startTime)
}

// emit appends to history and invokes the callbacks outside the lock so a
// callback may read the monitor without deadlocking.
func (m *Monitor) emit(e Event) {
	m.mu.Lock()
	m.history = append(m.history, e)
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
	cbs := make([]Callback, len(m.callbacks))
	copy(cbs, m.callbacks)
	m.mu.Unlock()

	for _, cb := range cbs {
		invoke(cb, e)
	}
}

func invoke(cb Callback, e Event) {
	defer func() {
		_ = recover()
	}()
	cb(e)
}

func percentage(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

func estimate(elapsed time.Duration, completed, total int) time.Duration {
	if completed <= 0 || total <= completed {
		return 0
	}
	perItem := float64(elapsed) / float64(completed)
	return time.Duration(perItem * float64(total-completed))
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
