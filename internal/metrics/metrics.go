package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	Runs               int64
	FeedsOK            int64
	FeedsFailed        int64
	EntriesFetched     int64
	RelevantArticles   int64
	ExtractionFailures int64
	SummariesGenerated int64
	SummariesFailed    int64
	SummariesSkipped   int64
	EmailsSent         int64
	EmailsFailed       int64
	EmptyRunsSkipped   int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	Running       bool
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = New()

func New() *Metrics {
	return &Metrics{IsHealthy: true}
}

func (m *Metrics) RecordFeeds(ok, total, entries int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedsOK += int64(ok)
	m.FeedsFailed += int64(total - ok)
	m.EntriesFetched += int64(entries)
}

func (m *Metrics) AddRelevant(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RelevantArticles += int64(n)
}

func (m *Metrics) IncrementExtractionFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExtractionFailures++
}

func (m *Metrics) IncrementSummariesGenerated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummariesGenerated++
}

func (m *Metrics) IncrementSummariesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummariesFailed++
}

func (m *Metrics) IncrementSummariesSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummariesSkipped++
}

func (m *Metrics) IncrementEmailsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmailsSent++
}

func (m *Metrics) IncrementEmailsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmailsFailed++
}

func (m *Metrics) IncrementEmptyRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmptyRunsSkipped++
}

func (m *Metrics) SetRunning(running bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Running = running
	if running {
		m.Runs++
	}
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

// SetLastRun marks a completed run. A run that hit an error keeps the error until the next clean run.
func (m *Metrics) SetLastRun(clean bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	if clean {
		m.IsHealthy = true
	}
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"runs":                       m.Runs,
		"running":                    m.Running,
		"feeds_ok":                   m.FeedsOK,
		"feeds_failed":               m.FeedsFailed,
		"entries_fetched":            m.EntriesFetched,
		"relevant_articles":          m.RelevantArticles,
		"extraction_failures":        m.ExtractionFailures,
		"summaries_generated":        m.SummariesGenerated,
		"summaries_failed":           m.SummariesFailed,
		"summaries_skipped":          m.SummariesSkipped,
		"emails_sent":                m.EmailsSent,
		"emails_failed":              m.EmailsFailed,
		"empty_runs_skipped":         m.EmptyRunsSkipped,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}
