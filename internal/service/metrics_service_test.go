package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/timetable"
)

func TestMetricsServiceGenerationAndConflicts(t *testing.T) {
	m := NewMetricsService()

	m.ObserveGeneration("sync", &timetable.GenerationResult{Requested: 10, Placed: 7}, 5*time.Millisecond)
	m.ObserveConflicts(timetable.ConflictSummary{ByKind: map[timetable.ConflictKind]int{timetable.ConflictTeacherDoubleBooking: 2}})
	m.ObserveTransition("approve")

	assert.Equal(t, float64(7), testutil.ToFloat64(m.periodsPlaced))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.periodsShortfall))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.conflicts.WithLabelValues("teacher_double_booking")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.transitions.WithLabelValues("approve")))
	assert.Equal(t, uint64(1), m.Snapshot().Generations)
}

func TestMetricsServiceCacheRatioAndHandler(t *testing.T) {
	m := NewMetricsService()
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "/health", http.StatusOK, 2*time.Millisecond)

	snap := m.Snapshot()
	assert.InDelta(t, 0.5, snap.CacheHitRatio, 0.0001)
	assert.Equal(t, uint64(1), snap.RequestsTotal)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "timetable_periods_placed_total")
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveGeneration("sync", &timetable.GenerationResult{}, time.Millisecond)
	m.ObserveTransition("approve")
	assert.Equal(t, MetricsSnapshot{}, m.Snapshot())
}
