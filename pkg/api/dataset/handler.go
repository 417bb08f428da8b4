// Package dataset exposes the upload and overview endpoints. Records live
// for one user session: uploaded once, read-only afterwards, recomputed
// into metrics and segments on demand.
package dataset

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"marketing_ai/pkg/core/agent"
	"marketing_ai/pkg/core/calc"
	"marketing_ai/pkg/core/dataset"
	"marketing_ai/pkg/core/insight"
	"marketing_ai/pkg/core/segment"
	"marketing_ai/pkg/models"
)

// Session holds the records of the current upload. Read-only after Set.
type Session struct {
	mu      sync.RWMutex
	records []models.Record
}

func (s *Session) Set(records []models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
}

// Records returns the current record set (shared slice; callers must not
// mutate).
func (s *Session) Records() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Handler serves dataset endpoints and owns the session.
type Handler struct {
	Session     *Session
	AgentMgr    *agent.Manager
	MetricsCfg  calc.MetricsConfig
	HomeCountry string
}

func NewHandler(agentMgr *agent.Manager) *Handler {
	return &Handler{
		Session:     &Session{},
		AgentMgr:    agentMgr,
		MetricsCfg:  calc.DefaultMetricsConfig(),
		HomeCountry: "US",
	}
}

func cors(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// HandleUpload ingests a CSV body (raw or multipart field "file") and
// replaces the session records.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	cors(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}

	body := r.Body
	if file, _, err := r.FormFile("file"); err == nil {
		body = file
		defer file.Close()
	}

	records, err := dataset.Load(body)
	if err != nil {
		http.Error(w, fmt.Sprintf("CSV parse failed: %v", err), http.StatusBadRequest)
		return
	}

	h.Session.Set(records)
	fmt.Printf("[DATASET] Loaded %d records\n", len(records))

	json.NewEncoder(w).Encode(map[string]interface{}{
		"records": len(records),
		"columns": dataset.Columns(records),
	})
}

// OverviewResponse is the data-overview payload: metrics, segment sizes and
// the original bar-chart tallies.
type OverviewResponse struct {
	Metrics      calc.MetricsSnapshot            `json:"metrics"`
	SegmentSizes map[string]int                  `json:"segment_sizes"`
	ValueCounts  map[string][]dataset.ValueCount `json:"value_counts"`
}

// HandleOverview recomputes metrics and segments from the session records.
func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	cors(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	records := h.Session.Records()
	snap := calc.Compute(records, "engagement_score", h.MetricsCfg)

	segments, err := segment.Segment(records, segment.DefaultDefinitions(h.HomeCountry))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sizes := map[string]int{}
	for name, subset := range segments {
		sizes[name] = len(subset)
	}

	counts := map[string][]dataset.ValueCount{}
	for _, column := range []string{"product_interest", "region"} {
		counts[column] = dataset.ValueCounts(records, column)
	}

	json.NewEncoder(w).Encode(OverviewResponse{
		Metrics:      snap,
		SegmentSizes: sizes,
		ValueCounts:  counts,
	})
}

// HandleInsights asks the insight agent for a Markdown summary of the
// current audience.
func (h *Handler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	cors(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	records := h.Session.Records()
	if len(records) == 0 {
		http.Error(w, "no dataset uploaded", http.StatusBadRequest)
		return
	}

	snap := calc.Compute(records, "engagement_score", h.MetricsCfg)
	segments, err := segment.Segment(records, segment.DefaultDefinitions(h.HomeCountry))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ia, err := insight.NewAgent(r.Context(), h.AgentMgr)
	if err != nil {
		http.Error(w, fmt.Sprintf("insight agent unavailable: %v", err), http.StatusServiceUnavailable)
		return
	}
	defer ia.Close()

	summary, err := ia.Summarize(r.Context(), records, snap, segments)
	if err != nil {
		http.Error(w, fmt.Sprintf("insight generation failed: %v", err), http.StatusBadGateway)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"insights": summary})
}
