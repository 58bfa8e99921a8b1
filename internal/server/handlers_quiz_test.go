package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/jonathan/career-hub/internal/db"
	"github.com/jonathan/career-hub/internal/quiz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStats struct {
	stats *db.DeckStats
	err   error
}

func (f *fakeStats) Stats(_ context.Context, deckID string) (*db.DeckStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := *f.stats
	out.DeckID = deckID
	return &out, nil
}

func startSession(t *testing.T, s *Server, deckID string) SessionResponse {
	t.Helper()
	w := do(t, s, http.MethodPost, "/api/decks/"+deckID+"/sessions", "", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decodeBody[SessionResponse](t, w)
	require.NotNil(t, resp.Session)
	require.NotEmpty(t, resp.Token)
	return resp
}

func sessionPath(resp SessionResponse, action string) string {
	path := "/api/sessions/" + resp.Session.ID.String()
	if action != "" {
		path += "/" + action
	}
	return path
}

func TestHandleListDecks(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/decks", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody[struct {
		Decks []DeckSummary `json:"decks"`
		Count int           `json:"count"`
	}](t, w)
	require.Equal(t, 3, resp.Count)
	assert.Equal(t, "cocktail-quiz", resp.Decks[0].ID)
	assert.Equal(t, quiz.ModeQuiz, resp.Decks[0].Mode)
	assert.Equal(t, 5, resp.Decks[0].Cards)
	assert.Equal(t, quiz.ModeFlashcards, resp.Decks[1].Mode)
}

func TestHandleStartSession(t *testing.T) {
	s := newTestServer(t)

	resp := startSession(t, s, "cocktail-quiz")
	assert.Equal(t, "cocktail-quiz", resp.Session.DeckID)
	assert.Equal(t, 1, resp.Session.Position)
	assert.Equal(t, 5, resp.Session.Total)
	require.NotNil(t, resp.Session.Card)
	assert.Empty(t, resp.Session.Card.Answer, "answer hidden until revealed")
	assert.False(t, resp.ExpiresAt.IsZero())

	w := do(t, s, http.MethodPost, "/api/decks/nope/sessions", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, errorMessage(t, w), "deck not found")
}

func TestSessionRoutes_RequireMatchingToken(t *testing.T) {
	s := newTestServer(t)
	first := startSession(t, s, "cocktail-quiz")
	second := startSession(t, s, "cocktail-quiz")

	w := do(t, s, http.MethodGet, sessionPath(first, ""), "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, s, http.MethodGet, sessionPath(first, ""), "", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, s, http.MethodPost, sessionPath(first, "reveal"), "", second.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, s, http.MethodGet, sessionPath(first, ""), "", first.Token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestQuizSessionFlow(t *testing.T) {
	s := newTestServer(t)
	lib := s.quiz.Library()
	deck, err := lib.Get("cocktail-quiz")
	require.NoError(t, err)

	resp := startSession(t, s, "cocktail-quiz")
	token := resp.Token

	w := do(t, s, http.MethodPost, sessionPath(resp, "next"), "", token)
	assert.Equal(t, http.StatusConflict, w.Code, "cannot advance before answering")
	assert.Contains(t, errorMessage(t, w), "answer or reveal")

	w = do(t, s, http.MethodPost, sessionPath(resp, "mark"), `{"known":true}`, token)
	assert.Equal(t, http.StatusConflict, w.Code, "quiz decks are not marked")

	var view quiz.View
	for i := 0; i < len(deck.Cards); i++ {
		w = do(t, s, http.MethodGet, sessionPath(resp, ""), "", token)
		require.Equal(t, http.StatusOK, w.Code)
		current := decodeBody[quiz.View](t, w)

		answer := "definitely wrong"
		if i%2 == 0 {
			answer = cardAnswer(t, lib, current.DeckID, current.Card.ID)
		}
		if i == len(deck.Cards)-1 {
			w = do(t, s, http.MethodPost, sessionPath(resp, "reveal"), "", token)
		} else {
			w = do(t, s, http.MethodPost, sessionPath(resp, "answer"), `{"choice":"`+answer+`"}`, token)
		}
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		scored := decodeBody[quiz.View](t, w)
		assert.NotEmpty(t, scored.Card.Answer, "answer shown once scored")

		w = do(t, s, http.MethodPost, sessionPath(resp, "answer"), `{"choice":"again"}`, token)
		assert.Equal(t, http.StatusConflict, w.Code)

		w = do(t, s, http.MethodPost, sessionPath(resp, "next"), "", token)
		require.Equal(t, http.StatusOK, w.Code)
		view = decodeBody[quiz.View](t, w)
	}

	require.True(t, view.Complete)
	require.NotNil(t, view.Result)
	assert.Equal(t, 2, view.Result.Correct, "cards 1 and 3 answered correctly, card 5 revealed")
	assert.Equal(t, 5, view.Result.Total)
	assert.Equal(t, 40, view.Result.Percent)
	assert.Equal(t, "Keep practicing", view.Result.Grade)
	assert.Len(t, view.Result.MissedIDs, 3)

	w = do(t, s, http.MethodPost, sessionPath(resp, "reveal"), "", token)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, errorMessage(t, w), "session is complete")

	w = do(t, s, http.MethodPost, sessionPath(resp, "review"), "", token)
	require.Equal(t, http.StatusCreated, w.Code)
	review := decodeBody[SessionResponse](t, w)
	assert.NotEqual(t, resp.Session.ID, review.Session.ID)
	assert.Equal(t, 3, review.Session.Total)

	w = do(t, s, http.MethodGet, sessionPath(review, ""), "", review.Token)
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, s, http.MethodGet, sessionPath(review, ""), "", token)
	assert.Equal(t, http.StatusForbidden, w.Code, "original token does not open the review session")
}

func TestFlashcardSessionFlow(t *testing.T) {
	s := newTestServer(t)
	resp := startSession(t, s, "forklift-flashcards")
	token := resp.Token

	w := do(t, s, http.MethodPost, sessionPath(resp, "mark"), `{"known":true}`, token)
	assert.Equal(t, http.StatusConflict, w.Code, "reveal first")

	w = do(t, s, http.MethodPost, sessionPath(resp, "answer"), `{"choice":"x"}`, token)
	assert.Equal(t, http.StatusConflict, w.Code, "flashcards are not answered")

	var view quiz.View
	for i := 0; i < resp.Session.Total; i++ {
		w = do(t, s, http.MethodPost, sessionPath(resp, "reveal"), "", token)
		require.Equal(t, http.StatusOK, w.Code)

		w = do(t, s, http.MethodPost, sessionPath(resp, "mark"), `{"known":true}`, token)
		require.Equal(t, http.StatusOK, w.Code)

		w = do(t, s, http.MethodPost, sessionPath(resp, "next"), "", token)
		require.Equal(t, http.StatusOK, w.Code)
		view = decodeBody[quiz.View](t, w)
	}

	require.True(t, view.Complete)
	assert.Equal(t, 100, view.Result.Percent)
	assert.Equal(t, "Expert", view.Result.Grade)

	w = do(t, s, http.MethodPost, sessionPath(resp, "review"), "", token)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, errorMessage(t, w), "no missed cards")
}

func TestSessionActions_BadBodies(t *testing.T) {
	s := newTestServer(t)
	resp := startSession(t, s, "cocktail-quiz")

	w := do(t, s, http.MethodPost, sessionPath(resp, "answer"), `{}`, resp.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorMessage(t, w), "choice")

	w = do(t, s, http.MethodPost, sessionPath(resp, "mark"), `{}`, resp.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorMessage(t, w), "known")

	w = do(t, s, http.MethodPost, sessionPath(resp, "answer"), `not json`, resp.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleDeckStats(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		s := newTestServer(t)
		w := do(t, s, http.MethodGet, "/api/decks/cocktail-quiz/stats", "", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("configured", func(t *testing.T) {
		s := newTestServer(t, func(c *Config) {
			c.Stats = &fakeStats{stats: &db.DeckStats{Sessions: 4, AveragePercent: 72.5}}
		})
		w := do(t, s, http.MethodGet, "/api/decks/cocktail-quiz/stats", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		stats := decodeBody[db.DeckStats](t, w)
		assert.Equal(t, "cocktail-quiz", stats.DeckID)
		assert.Equal(t, 4, stats.Sessions)

		w = do(t, s, http.MethodGet, "/api/decks/nope/stats", "", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		s := newTestServer(t, func(c *Config) {
			c.Stats = &fakeStats{err: errors.New("db down")}
		})
		w := do(t, s, http.MethodGet, "/api/decks/cocktail-quiz/stats", "", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func cardAnswer(t *testing.T, lib *quiz.Library, deckID, cardID string) string {
	t.Helper()
	deck, err := lib.Get(deckID)
	require.NoError(t, err)
	for _, c := range deck.Cards {
		if c.ID == cardID {
			return strings.ReplaceAll(c.Answer, `"`, `\"`)
		}
	}
	t.Fatalf("card %s not found", cardID)
	return ""
}
