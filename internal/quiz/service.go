package quiz

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CardView is what a player sees of a card. Answer and Explanation are only
// filled once the card is revealed.
type CardView struct {
	ID          string   `json:"id"`
	Prompt      string   `json:"prompt"`
	Choices     []string `json:"choices,omitempty"`
	Answer      string   `json:"answer,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

// View is the API representation of a session.
type View struct {
	ID          uuid.UUID `json:"id"`
	DeckID      string    `json:"deck_id"`
	DeckTitle   string    `json:"deck_title"`
	Mode        Mode      `json:"mode"`
	Position    int       `json:"position"`
	Total       int       `json:"total"`
	Revealed    bool      `json:"revealed"`
	Answered    bool      `json:"answered"`
	LastCorrect bool      `json:"last_correct"`
	Correct     int       `json:"correct"`
	Complete    bool      `json:"complete"`
	Card        *CardView `json:"card,omitempty"`
	Result      *Result   `json:"result,omitempty"`
}

// Service runs sessions against a deck library and a store.
type Service struct {
	lib     *Library
	store   Store
	logger  *zap.Logger
	now     func() time.Time
	newRand func() *rand.Rand
}

// Option configures a Service.
type Option func(*Service)

// WithSeed makes shuffling deterministic.
func WithSeed(seed uint64) Option {
	return func(s *Service) {
		s.newRand = func() *rand.Rand { return rand.New(rand.NewPCG(seed, seed)) }
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService creates a Service.
func NewService(lib *Library, store Store, opts ...Option) *Service {
	s := &Service{
		lib:     lib,
		store:   store,
		logger:  zap.NewNop(),
		now:     time.Now,
		newRand: func() *rand.Rand { return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Library returns the deck library.
func (s *Service) Library() *Library {
	return s.lib
}

// Start begins a new shuffled session on a deck.
func (s *Service) Start(ctx context.Context, deckID string) (*View, error) {
	deck, err := s.lib.Get(deckID)
	if err != nil {
		return nil, err
	}

	sess := Start(deck, s.newRand(), s.now())
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.logger.Info("quiz session started", zap.String("session", sess.ID.String()), zap.String("deck", deck.ID))
	return s.view(deck, sess), nil
}

// Get returns the current view of a session.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	sess, deck, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(deck, sess), nil
}

// Reveal shows the current card's answer.
func (s *Service) Reveal(ctx context.Context, id uuid.UUID) (*View, error) {
	return s.update(ctx, id, func(sess *Session, _ *Deck) error {
		return sess.Reveal()
	})
}

// Answer scores a choice on the current quiz card.
func (s *Service) Answer(ctx context.Context, id uuid.UUID, choice string) (*View, error) {
	return s.update(ctx, id, func(sess *Session, deck *Deck) error {
		_, err := sess.Answer(deck, choice)
		return err
	})
}

// Mark records whether the current flashcard was known.
func (s *Service) Mark(ctx context.Context, id uuid.UUID, known bool) (*View, error) {
	return s.update(ctx, id, func(sess *Session, _ *Deck) error {
		return sess.Mark(known)
	})
}

// Next advances the session; completing it records the result.
func (s *Service) Next(ctx context.Context, id uuid.UUID) (*View, error) {
	view, err := s.update(ctx, id, func(sess *Session, _ *Deck) error {
		return sess.Next()
	})
	if err != nil {
		return nil, err
	}
	if view.Complete && view.Result != nil {
		if err := s.store.RecordResult(ctx, *view.Result); err != nil {
			// The session itself is saved; a lost result row only affects stats.
			s.logger.Warn("failed to record quiz result", zap.String("session", id.String()), zap.Error(err))
		} else {
			s.logger.Info("quiz session complete",
				zap.String("session", id.String()),
				zap.Int("correct", view.Result.Correct),
				zap.Int("total", view.Result.Total))
		}
	}
	return view, nil
}

// ReviewMissed starts a new session over the missed cards of a completed one.
func (s *Service) ReviewMissed(ctx context.Context, id uuid.UUID) (*View, error) {
	sess, deck, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	review, err := sess.ReviewMissed(deck, s.newRand(), s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review session: %w", err)
	}
	return s.view(deck, review), nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*Session, *Deck, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	deck, err := s.lib.Get(sess.DeckID)
	if err != nil {
		return nil, nil, err
	}
	return sess, deck, nil
}

func (s *Service) update(ctx context.Context, id uuid.UUID, fn func(*Session, *Deck) error) (*View, error) {
	sess, deck, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess, deck); err != nil {
		return nil, err
	}
	sess.UpdatedAt = s.now()
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return s.view(deck, sess), nil
}

func (s *Service) view(deck *Deck, sess *Session) *View {
	v := &View{
		ID:          sess.ID,
		DeckID:      deck.ID,
		DeckTitle:   deck.Title,
		Mode:        sess.Mode,
		Position:    min(sess.Index+1, sess.Total()),
		Total:       sess.Total(),
		Revealed:    sess.Revealed,
		Answered:    sess.Answered,
		LastCorrect: sess.LastCorrect,
		Correct:     sess.Correct,
		Complete:    sess.Complete,
	}

	if card := sess.Current(deck); card != nil {
		cv := &CardView{ID: card.ID, Prompt: card.Prompt, Choices: card.Choices}
		if sess.Revealed {
			cv.Answer = card.Answer
			cv.Explanation = card.Explanation
		}
		v.Card = cv
	}
	if sess.Complete {
		res := sess.Result(deck)
		v.Result = &res
	}
	return v
}
