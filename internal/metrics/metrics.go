// Package metrics records command-level Prometheus metrics for algolearn.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors on a registry owned by the caller
type Metrics struct {
	Registry *prometheus.Registry

	SearchesTotal   *prometheus.CounterVec
	SearchResults   prometheus.Histogram
	SearchDuration  prometheus.Histogram
	CurriculumLoads *prometheus.CounterVec
	CacheRequests   *prometheus.CounterVec
	NoteChanges     *prometheus.CounterVec
	ProgressChanges *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "algolearn_searches_total",
				Help: "Total number of searches executed",
			},
			[]string{"sort", "format"},
		),
		SearchResults: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "algolearn_search_results",
				Help:    "Number of results returned per search",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
			},
		),
		SearchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "algolearn_search_duration_seconds",
				Help:    "Time to build the catalog and rank results",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
			},
		),
		CurriculumLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "algolearn_curriculum_loads_total",
				Help: "Curriculum loads by source (file, legacy, default)",
			},
			[]string{"source"},
		),
		CacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "algolearn_cache_requests_total",
				Help: "Search cache lookups by result (hit, miss, error)",
			},
			[]string{"result"},
		),
		NoteChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "algolearn_note_changes_total",
				Help: "Note mutations by action",
			},
			[]string{"action"},
		),
		ProgressChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "algolearn_progress_changes_total",
				Help: "Lesson progress transitions by status",
			},
			[]string{"status"},
		),
	}

	m.Registry.MustRegister(
		m.SearchesTotal,
		m.SearchResults,
		m.SearchDuration,
		m.CurriculumLoads,
		m.CacheRequests,
		m.NoteChanges,
		m.ProgressChanges,
	)
	return m
}

// RecordSearch records one completed search
func (m *Metrics) RecordSearch(sort, format string, results int, elapsed time.Duration) {
	m.SearchesTotal.WithLabelValues(sort, format).Inc()
	m.SearchResults.Observe(float64(results))
	m.SearchDuration.Observe(elapsed.Seconds())
}

// RecordCurriculumLoad counts a load from source
func (m *Metrics) RecordCurriculumLoad(source string) {
	m.CurriculumLoads.WithLabelValues(source).Inc()
}

// RecordCache counts a cache lookup; result is hit, miss or error
func (m *Metrics) RecordCache(result string) {
	m.CacheRequests.WithLabelValues(result).Inc()
}

// RecordNoteChange counts a note mutation
func (m *Metrics) RecordNoteChange(action string) {
	m.NoteChanges.WithLabelValues(action).Inc()
}

// RecordProgressChange counts a progress transition
func (m *Metrics) RecordProgressChange(status string) {
	m.ProgressChanges.WithLabelValues(status).Inc()
}

// WriteTextfile writes the registry in the text exposition format for the
// node-exporter textfile collector. An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
