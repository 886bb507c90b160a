package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/copywatch/internal/brief"
	"github.com/ppiankov/copywatch/internal/match"
	"github.com/ppiankov/copywatch/internal/model"
)

// maxBodyBytes bounds request bodies; scripts are short.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules := s.engine().Store.Load()
	writeJSON(w, http.StatusOK, map[string]any{"rules": rules})
}

func (s *Server) handleAddRule(w http.ResponseWriter, r *http.Request) {
	var rule model.Rule
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&rule); err != nil {
		writeError(w, http.StatusBadRequest, "invalid rule JSON: "+err.Error())
		return
	}
	if err := rule.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	added := s.engine().Store.Add(rule)
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleGetRule(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	for _, rule := range s.engine().Store.Load() {
		if rule.ID == id {
			writeJSON(w, http.StatusOK, rule)
			return
		}
	}
	writeError(w, http.StatusNotFound, "rule not found: "+id)
}

// patchRequest mirrors model.RulePatch with JSON tags; absent keys stay
// nil and leave the field untouched.
type patchRequest struct {
	Category          *model.Category  `json:"category"`
	Title             *string          `json:"title"`
	Description       *string          `json:"description"`
	ForbiddenWords    *[]string        `json:"forbiddenWords"`
	ForbiddenPairings *[]model.Pairing `json:"forbiddenPairings"`
	Examples          *[]string        `json:"examples"`
	Severity          *model.Severity  `json:"severity"`
	IsActive          *bool            `json:"isActive"`
}

func (p patchRequest) toPatch() model.RulePatch {
	return model.RulePatch{
		Category:          p.Category,
		Title:             p.Title,
		Description:       p.Description,
		ForbiddenWords:    p.ForbiddenWords,
		ForbiddenPairings: p.ForbiddenPairings,
		Examples:          p.Examples,
		Severity:          p.Severity,
		IsActive:          p.IsActive,
	}
}

func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req patchRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid patch JSON: "+err.Error())
		return
	}

	updated := s.engine().Store.Update(id, req.toPatch())
	if updated == nil {
		writeError(w, http.StatusNotFound, "rule not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.engine().Store.Delete(id) {
		writeError(w, http.StatusNotFound, "rule not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rules": s.engine().Store.Search(q)})
}

func (s *Server) handleByCategory(w http.ResponseWriter, r *http.Request) {
	cat := model.Category(r.PathValue("category"))
	if !cat.Valid() {
		writeError(w, http.StatusBadRequest, "unknown category: "+string(cat))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rules": s.engine().Store.ByCategory(cat)})
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine().Store.Metadata())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	blob, err := s.engine().Store.Export()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="copywatch-rules.json"`)
	_, _ = w.Write(blob)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	blob, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}
	if !s.engine().Store.Import(blob) {
		writeError(w, http.StatusBadRequest, "malformed import blob: rules array required")
		return
	}
	writeJSON(w, http.StatusOK, s.engine().Store.Metadata())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.engine().Store.ResetToDefault()
	writeJSON(w, http.StatusOK, s.engine().Store.Metadata())
}

func (s *Server) handleBrief(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, brief.Build(s.engine().Store.Active()))
}

type checkRequest struct {
	Text string `json:"text"`
}

// checkResponse wraps a check result with a server-assigned id so UI
// clients can correlate rechecks with audit entries.
type checkResponse struct {
	CheckID string `json:"checkId"`
	model.CheckResult
}

func (s *Server) readCheckRequest(w http.ResponseWriter, r *http.Request) (checkRequest, bool) {
	var req checkRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid check JSON: "+err.Error())
		return req, false
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return req, false
	}
	return req, true
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readCheckRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	result := match.Check(req.Text, s.engine().Store.Active())
	s.recordCheck("local", result, time.Since(start))

	writeJSON(w, http.StatusOK, checkResponse{CheckID: uuid.NewString(), CheckResult: result})
}

func (s *Server) handleRecheck(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readCheckRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	result := s.engine().Recheck.Recheck(r.Context(), req.Text)
	s.recordCheck("ai", result, time.Since(start))

	writeJSON(w, http.StatusOK, checkResponse{CheckID: uuid.NewString(), CheckResult: result})
}

func (s *Server) recordCheck(mode string, result model.CheckResult, elapsed time.Duration) {
	outcome := "clean"
	if result.IsViolating {
		outcome = "violating"
	}
	s.metrics.checksTotal.WithLabelValues(mode, outcome).Inc()
	for _, f := range result.ViolatedRules {
		s.metrics.findingsTotal.WithLabelValues(string(f.Severity)).Inc()
	}
	s.metrics.checkDuration.Observe(elapsed.Seconds())
}
