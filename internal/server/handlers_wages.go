package server

import (
	"net/http"

	"github.com/jonathan/career-hub/internal/insights"
	"github.com/jonathan/career-hub/internal/wages"
)

// handleWageReport returns the report header and its top-payer highlights
func (s *Server) handleWageReport(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"title":           s.report.Title,
		"year":            s.report.Year,
		"unit":            s.report.Unit,
		"national_median": s.report.NationalMedian,
		"occupations":     len(s.report.Occupations),
		"industries":      len(s.report.Industries),
		"regions":         len(s.report.Regions),
		"highlights":      s.engine.Highlights(s.report),
	})
}

// handleListOccupations lists the rows of one table (occupations by default)
func (s *Server) handleListOccupations(w http.ResponseWriter, r *http.Request) {
	kind, err := wages.ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		s.handleError(w, r, &ErrValidation{Field: "kind", Message: err.Error()})
		return
	}

	rows := s.report.Table(kind)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"kind":  kind,
		"rows":  rows,
		"count": len(rows),
	})
}

// handleInsights returns insights for one occupation, or for all of them
// plus the report highlights when no occupation is given
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("occupation")
	if slug == "" {
		all, err := s.engine.GenerateAll(r.Context(), s.report)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"occupations": all,
			"highlights":  s.engine.Highlights(s.report),
		})
		return
	}

	row, err := s.report.Find(wages.KindOccupation, slug)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, insights.OccupationInsights{
		Slug:     row.Slug,
		Name:     row.Name,
		Insights: s.engine.ForRow(s.report, *row),
	})
}

// NarrativeRequest selects what to narrate; an empty occupation narrates the
// report highlights.
type NarrativeRequest struct {
	Occupation string `json:"occupation,omitempty"`
}

// handleNarrative turns rule-generated insights into a paragraph with the LLM
func (s *Server) handleNarrative(w http.ResponseWriter, r *http.Request) {
	if s.narrator == nil {
		s.handleError(w, r, &ErrUnavailable{Feature: "narrative summaries"})
		return
	}

	var req NarrativeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	var (
		subject string
		items   []insights.Insight
		text    string
		err     error
	)
	if req.Occupation == "" {
		subject = s.report.Title
		items = s.engine.Highlights(s.report)
		if len(items) == 0 {
			s.handleError(w, r, &ErrValidation{Field: "occupation", Message: "report has no industry or region highlights; name an occupation"})
			return
		}
		text, err = s.narrator.NarrateReport(r.Context(), s.report, items)
	} else {
		row, findErr := s.report.Find(wages.KindOccupation, req.Occupation)
		if findErr != nil {
			s.handleError(w, r, findErr)
			return
		}
		subject = row.Name
		items = s.engine.ForRow(s.report, *row)
		if len(items) == 0 {
			s.handleError(w, r, &ErrValidation{Field: "occupation", Message: "no insights to narrate for " + row.Name})
			return
		}
		text, err = s.narrator.NarrateOccupation(r.Context(), row.Name, items)
	}
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"subject":   subject,
		"narrative": text,
		"insights":  items,
	})
}
