package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/career-hub/internal/quiz"
	"github.com/jonathan/career-hub/internal/server/middleware"
	"go.uber.org/zap"
)

// DeckSummary lists a deck without its cards
type DeckSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Mode        quiz.Mode `json:"mode"`
	Cards       int       `json:"cards"`
}

// SessionResponse is returned when a session is created
type SessionResponse struct {
	Session   *quiz.View `json:"session"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// AnswerRequest is the body of POST /api/sessions/{id}/answer
type AnswerRequest struct {
	Choice string `json:"choice"`
}

// MarkRequest is the body of POST /api/sessions/{id}/mark
type MarkRequest struct {
	Known *bool `json:"known"`
}

// handleListDecks lists the available decks
func (s *Server) handleListDecks(w http.ResponseWriter, _ *http.Request) {
	decks := s.quiz.Library().List()
	out := make([]DeckSummary, 0, len(decks))
	for _, d := range decks {
		out = append(out, DeckSummary{
			ID:          d.ID,
			Title:       d.Title,
			Description: d.Description,
			Mode:        d.Mode,
			Cards:       len(d.Cards),
		})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"decks": out,
		"count": len(out),
	})
}

// handleDeckStats returns aggregate results for a deck
func (s *Server) handleDeckStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		s.handleError(w, r, &ErrUnavailable{Feature: "deck statistics"})
		return
	}
	deckID := r.PathValue("id")
	if _, err := s.quiz.Library().Get(deckID); err != nil {
		s.handleError(w, r, err)
		return
	}

	stats, err := s.stats.Stats(r.Context(), deckID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, stats)
}

// handleStartSession starts a shuffled session and issues its token
func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.quiz.Start(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.sessionCreated(w, r, view)
}

// handleGetSession returns the current state of a session
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.sessionAction(w, r, s.quiz.Get)
}

// handleReveal shows the current card's answer
func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	s.sessionAction(w, r, s.quiz.Reveal)
}

// handleAnswer scores a multiple-choice answer
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if req.Choice == "" {
		s.handleError(w, r, &ErrValidation{Field: "choice", Message: "is required"})
		return
	}

	s.sessionAction(w, r, func(ctx context.Context, id uuid.UUID) (*quiz.View, error) {
		return s.quiz.Answer(ctx, id, req.Choice)
	})
}

// handleMark records whether a flashcard was known
func (s *Server) handleMark(w http.ResponseWriter, r *http.Request) {
	var req MarkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if req.Known == nil {
		s.handleError(w, r, &ErrValidation{Field: "known", Message: "is required"})
		return
	}

	s.sessionAction(w, r, func(ctx context.Context, id uuid.UUID) (*quiz.View, error) {
		return s.quiz.Mark(ctx, id, *req.Known)
	})
}

// handleNext advances to the next card
func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.sessionAction(w, r, s.quiz.Next)
}

// handleReview starts a new session over the cards missed in a completed one
func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.GetSessionID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	view, err := s.quiz.ReviewMissed(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.sessionCreated(w, r, view)
}

func (s *Server) sessionAction(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) (*quiz.View, error)) {
	id, err := middleware.GetSessionID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	view, err := fn(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

func (s *Server) sessionCreated(w http.ResponseWriter, r *http.Request, view *quiz.View) {
	token, expiresAt, err := s.tokens.GenerateToken(view.ID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.logger.Debug("session token issued", zap.String("session", view.ID.String()))
	s.jsonResponse(w, http.StatusCreated, SessionResponse{
		Session:   view,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
