package quiz

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// Session is one run through a deck. Order holds card indices in play order
// and Index points into Order. A card is "answered" once it has been scored:
// by Answer in quiz mode, by Mark in flashcard mode, or by Reveal when a quiz
// card is revealed without an answer.
type Session struct {
	ID          uuid.UUID `json:"id"`
	DeckID      string    `json:"deck_id"`
	Mode        Mode      `json:"mode"`
	Order       []int     `json:"order"`
	Index       int       `json:"index"`
	Revealed    bool      `json:"revealed"`
	Answered    bool      `json:"answered"`
	LastCorrect bool      `json:"last_correct"`
	Correct     int       `json:"correct"`
	Missed      []int     `json:"missed"`
	Complete    bool      `json:"complete"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Start creates a session over every card in the deck in shuffled order.
func Start(deck *Deck, rng *rand.Rand, now time.Time) *Session {
	order := make([]int, len(deck.Cards))
	for i := range order {
		order[i] = i
	}
	return newSession(deck, order, rng, now)
}

func newSession(deck *Deck, order []int, rng *rand.Rand, now time.Time) *Session {
	if rng != nil {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	return &Session{
		ID:        uuid.New(),
		DeckID:    deck.ID,
		Mode:      deck.Mode,
		Order:     order,
		Missed:    []int{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Total is the number of cards in the session.
func (s *Session) Total() int {
	return len(s.Order)
}

// Current returns the card being shown, or nil once complete.
func (s *Session) Current(deck *Deck) *Card {
	if s.Complete || s.Index >= len(s.Order) {
		return nil
	}
	return &deck.Cards[s.Order[s.Index]]
}

func (s *Session) checkOpen(op string) error {
	if s.Complete {
		return &StateError{Op: op, Message: "session is complete"}
	}
	return nil
}

// Reveal shows the answer. Revealing an unanswered quiz card forfeits it.
func (s *Session) Reveal() error {
	if err := s.checkOpen("reveal"); err != nil {
		return err
	}
	if s.Revealed {
		return nil
	}
	s.Revealed = true
	if s.Mode == ModeQuiz && !s.Answered {
		s.score(false)
	}
	return nil
}

// Answer scores a choice on a quiz card and reveals the answer.
func (s *Session) Answer(deck *Deck, choice string) (bool, error) {
	if err := s.checkOpen("answer"); err != nil {
		return false, err
	}
	if s.Mode != ModeQuiz {
		return false, &StateError{Op: "answer", Message: "flashcard decks are marked, not answered"}
	}
	if s.Answered {
		return false, &StateError{Op: "answer", Message: "card already answered"}
	}

	card := s.Current(deck)
	correct := sameAnswer(choice, card.Answer)
	s.Revealed = true
	s.score(correct)
	return correct, nil
}

// Mark records whether the player knew a revealed flashcard.
func (s *Session) Mark(known bool) error {
	if err := s.checkOpen("mark"); err != nil {
		return err
	}
	if s.Mode != ModeFlashcards {
		return &StateError{Op: "mark", Message: "quiz decks are answered, not marked"}
	}
	if !s.Revealed {
		return &StateError{Op: "mark", Message: "reveal the card first"}
	}
	if s.Answered {
		return &StateError{Op: "mark", Message: "card already marked"}
	}
	s.score(known)
	return nil
}

// Next advances to the following card, completing the session after the last.
func (s *Session) Next() error {
	if err := s.checkOpen("advance"); err != nil {
		return err
	}
	if !s.Answered {
		if s.Mode == ModeQuiz {
			return &StateError{Op: "advance", Message: "answer or reveal the card first"}
		}
		return &StateError{Op: "advance", Message: "mark the card first"}
	}

	if s.Index == len(s.Order)-1 {
		s.Complete = true
		return nil
	}
	s.Index++
	s.Revealed = false
	s.Answered = false
	s.LastCorrect = false
	return nil
}

func (s *Session) score(correct bool) {
	s.Answered = true
	s.LastCorrect = correct
	if correct {
		s.Correct++
		return
	}
	s.Missed = append(s.Missed, s.Order[s.Index])
}

// ReviewMissed starts a new session over the cards missed in a completed one.
func (s *Session) ReviewMissed(deck *Deck, rng *rand.Rand, now time.Time) (*Session, error) {
	if !s.Complete {
		return nil, &StateError{Op: "review", Message: "session is not complete"}
	}
	if len(s.Missed) == 0 {
		return nil, &StateError{Op: "review", Message: "no missed cards"}
	}
	order := append([]int(nil), s.Missed...)
	return newSession(deck, order, rng, now), nil
}

// Result summarizes a session.
type Result struct {
	SessionID  uuid.UUID `json:"session_id"`
	DeckID     string    `json:"deck_id"`
	Correct    int       `json:"correct"`
	Total      int       `json:"total"`
	Percent    int       `json:"percent"`
	Grade      string    `json:"grade"`
	MissedIDs  []string  `json:"missed_ids"`
	Complete   bool      `json:"complete"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// Result scores the session so far. Percent is over all cards in the
// session, so an unfinished session can only grade low.
func (s *Session) Result(deck *Deck) Result {
	res := Result{
		SessionID: s.ID,
		DeckID:    s.DeckID,
		Correct:   s.Correct,
		Total:     s.Total(),
		MissedIDs: make([]string, 0, len(s.Missed)),
		Complete:  s.Complete,
	}
	if res.Total > 0 {
		res.Percent = s.Correct * 100 / res.Total
	}
	res.Grade = Grade(res.Percent)
	for _, idx := range s.Missed {
		res.MissedIDs = append(res.MissedIDs, deck.Cards[idx].ID)
	}
	if s.Complete {
		res.FinishedAt = s.UpdatedAt
	}
	return res
}

// Grade maps a percentage to the band shown on the results card.
func Grade(percent int) string {
	switch {
	case percent >= 90:
		return "Expert"
	case percent >= 70:
		return "Proficient"
	case percent >= 50:
		return "Learning"
	default:
		return "Keep practicing"
	}
}
