// Package campaign exposes the generation and export endpoints.
package campaign

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"marketing_ai/pkg/core/agent"
	"marketing_ai/pkg/core/campaign"
	"marketing_ai/pkg/core/export"
	"marketing_ai/pkg/core/segment"
	"marketing_ai/pkg/core/store"

	apidataset "marketing_ai/pkg/api/dataset"
)

// Handler drives generation runs against the current dataset session.
// Finished reports are kept in memory for export; the database archive is
// best-effort when a pool is configured.
type Handler struct {
	AgentMgr    *agent.Manager
	Session     *apidataset.Session
	HomeCountry string

	mu      sync.Mutex
	reports map[string]*campaign.Report
	repo    *store.ReportRepo
}

func NewHandler(agentMgr *agent.Manager, session *apidataset.Session) *Handler {
	return &Handler{
		AgentMgr:    agentMgr,
		Session:     session,
		HomeCountry: "US",
		reports:     map[string]*campaign.Report{},
		repo:        store.NewReportRepo(),
	}
}

func cors(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// GenerateRequest selects who to target and what to generate.
// Segment empty means the whole dataset. PerRecord controls one prompt per
// customer versus one shared prompt for the subset.
type GenerateRequest struct {
	ContentType campaign.ContentType `json:"content_type"`
	Style       campaign.StyleConfig `json:"style"`
	Segment     string               `json:"segment,omitempty"`
	PerRecord   bool                 `json:"per_record"`
	Provider    string               `json:"provider,omitempty"` // Optional per-request provider override
}

type GenerateResponse struct {
	ReportID  string                 `json:"report_id"`
	Succeeded int                    `json:"succeeded"`
	Failed    int                    `json:"failed"`
	Entries   []campaign.ReportEntry `json:"entries"`
}

// HandleGenerate runs one assembler batch.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	cors(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	records := h.Session.Records()
	if len(records) == 0 {
		http.Error(w, "no dataset uploaded", http.StatusBadRequest)
		return
	}

	// Resolve the target subset.
	subset := records
	subsetName := "all_customers"
	if req.Segment != "" {
		segments, err := segment.Segment(records, segment.DefaultDefinitions(h.HomeCountry))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		chosen, ok := segments[req.Segment]
		if !ok {
			http.Error(w, fmt.Sprintf("unknown segment %q", req.Segment), http.StatusBadRequest)
			return
		}
		subset = chosen
		subsetName = req.Segment
	}

	var targets []campaign.Target
	if req.PerRecord {
		targets = campaign.TargetsPerRecord(subset, []string{"name", "email", "customer_id"})
	} else {
		targets = campaign.SharedTarget(subsetName, subset)
	}

	assembler := campaign.NewAssembler(nil)

	// Route through the manager so the configured campaign model applies;
	// an explicit provider in the request pins that provider instead.
	client := h.AgentMgr.Client("campaign")
	if req.Provider != "" {
		pinned, err := h.AgentMgr.ClientWithProvider("campaign", req.Provider)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		client = pinned
	}

	report, err := assembler.Generate(r.Context(), targets, req.ContentType, req.Style, client)
	if err != nil {
		// Configuration errors are the caller's bug; runtime failures are
		// already inside the report.
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	h.reports[report.ID.String()] = report
	h.mu.Unlock()

	// Archive is best-effort; the report is already in the response.
	if store.GetPool() != nil {
		if err := h.repo.Save(r.Context(), report); err != nil {
			fmt.Printf("[CAMPAIGN] Warning: report archive failed: %v\n", err)
		}
	}

	fmt.Printf("[CAMPAIGN] Report %s: %d/%d targets succeeded\n", report.ID, report.Succeeded(), len(report.Entries))

	json.NewEncoder(w).Encode(GenerateResponse{
		ReportID:  report.ID.String(),
		Succeeded: report.Succeeded(),
		Failed:    len(report.Entries) - report.Succeeded(),
		Entries:   report.Entries,
	})
}

// HandleExport serves a finished report as a plain-text artifact.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	cors(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing id parameter", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	report, ok := h.reports[id]
	h.mu.Unlock()

	if !ok && store.GetPool() != nil {
		if loaded, err := h.repo.Load(r.Context(), id); err == nil {
			report, ok = loaded, true
		}
	}
	if !ok {
		http.Error(w, fmt.Sprintf("no report with id %s", id), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=report-%s.txt", id))
	fmt.Fprint(w, export.PlainText(report))
}
