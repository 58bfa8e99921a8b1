package server

import (
	"net/http"

	"github.com/jonathan/career-hub/internal/calculators"
)

// handleListStates returns the state benefit and tax reference rows
func (s *Server) handleListStates(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"tax_year": s.reference.TaxYear,
		"states":   s.reference.States,
		"count":    len(s.reference.States),
	})
}

// handleUnemployment estimates a weekly unemployment benefit
func (s *Server) handleUnemployment(w http.ResponseWriter, r *http.Request) {
	var in calculators.UnemploymentInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.handleError(w, r, err)
		return
	}

	state, err := s.reference.State(in.State)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	result, err := calculators.EstimateUnemployment(in, state)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleCertificationROI estimates payback for a certification
func (s *Server) handleCertificationROI(w http.ResponseWriter, r *http.Request) {
	var in calculators.CertificationInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.handleError(w, r, err)
		return
	}

	result, err := calculators.EstimateCertificationROI(in)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleFPL evaluates income against the federal poverty line
func (s *Server) handleFPL(w http.ResponseWriter, r *http.Request) {
	var in calculators.FPLInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.handleError(w, r, err)
		return
	}

	guideline, err := s.reference.Guideline(in.Region)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	result, err := calculators.EvaluateFPL(in, guideline)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handlePaycheck estimates take-home pay per period
func (s *Server) handlePaycheck(w http.ResponseWriter, r *http.Request) {
	var in calculators.PaycheckInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.handleError(w, r, err)
		return
	}

	result, err := calculators.EstimatePaycheck(in, s.reference)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleSalary converts between hourly and annual pay
func (s *Server) handleSalary(w http.ResponseWriter, r *http.Request) {
	var in calculators.SalaryInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.handleError(w, r, err)
		return
	}

	result, err := calculators.Convert(in)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}
