// Package quiz implements the Career Hub quiz and flashcard trainers: a deck
// of cards played as show card, reveal, score, next until complete.
package quiz

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/career-hub/internal/schemas"
	"gopkg.in/yaml.v3"
)

//go:embed decks/*.yaml
var deckFiles embed.FS

// Mode selects how a deck is played.
type Mode string

// Deck modes.
const (
	// ModeQuiz cards are multiple choice and scored on the chosen answer.
	ModeQuiz Mode = "quiz"
	// ModeFlashcards cards are revealed and self-marked as known or missed.
	ModeFlashcards Mode = "flashcards"
)

// Card is one prompt and its answer.
type Card struct {
	ID          string   `yaml:"id" json:"id" validate:"required"`
	Prompt      string   `yaml:"prompt" json:"prompt" validate:"required"`
	Answer      string   `yaml:"answer" json:"answer" validate:"required"`
	Choices     []string `yaml:"choices,omitempty" json:"choices,omitempty"`
	Explanation string   `yaml:"explanation,omitempty" json:"explanation,omitempty"`
}

// Deck is a titled set of cards.
type Deck struct {
	ID          string `yaml:"id" json:"id" validate:"required"`
	Title       string `yaml:"title" json:"title" validate:"required"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Mode        Mode   `yaml:"mode" json:"mode" validate:"oneof=quiz flashcards"`
	Cards       []Card `yaml:"cards" json:"cards" validate:"required,min=1,dive"`
}

var validate = validator.New()

// Validate checks struct constraints, unique card IDs, and that every quiz
// card offers at least two choices including its answer.
func (d *Deck) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("invalid deck %q: %w", d.ID, err)
	}

	seen := make(map[string]bool, len(d.Cards))
	for _, c := range d.Cards {
		if seen[c.ID] {
			return fmt.Errorf("invalid deck %q: duplicate card id %s", d.ID, c.ID)
		}
		seen[c.ID] = true

		if d.Mode != ModeQuiz {
			continue
		}
		if len(c.Choices) < 2 {
			return fmt.Errorf("invalid deck %q: card %s needs at least two choices", d.ID, c.ID)
		}
		if !containsFold(c.Choices, c.Answer) {
			return fmt.Errorf("invalid deck %q: card %s answer is not among its choices", d.ID, c.ID)
		}
	}
	return nil
}

// ParseDeck decodes a YAML deck, checks it against the deck schema and validates it.
func ParseDeck(data []byte) (*Deck, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse deck YAML: %w", err)
	}
	if err := schemas.ValidateDocument(schemas.Deck, doc); err != nil {
		return nil, err
	}

	var deck Deck
	if err := yaml.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("failed to decode deck: %w", err)
	}
	if err := deck.Validate(); err != nil {
		return nil, err
	}
	return &deck, nil
}

// Library is an immutable set of decks keyed by ID.
type Library struct {
	decks map[string]*Deck
	ids   []string
}

// NewLibrary builds a library from decks, rejecting duplicate IDs.
func NewLibrary(decks ...*Deck) (*Library, error) {
	lib := &Library{decks: make(map[string]*Deck, len(decks))}
	for _, d := range decks {
		if _, dup := lib.decks[d.ID]; dup {
			return nil, fmt.Errorf("duplicate deck id %s", d.ID)
		}
		lib.decks[d.ID] = d
		lib.ids = append(lib.ids, d.ID)
	}
	sort.Strings(lib.ids)
	return lib, nil
}

// LoadLibrary loads the embedded decks.
func LoadLibrary() (*Library, error) {
	files, err := fs.Glob(deckFiles, "decks/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}

	decks := make([]*Deck, 0, len(files))
	for _, file := range files {
		data, err := deckFiles.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		deck, err := ParseDeck(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		decks = append(decks, deck)
	}
	return NewLibrary(decks...)
}

// Get returns a deck by ID.
func (l *Library) Get(id string) (*Deck, error) {
	d, ok := l.decks[id]
	if !ok {
		return nil, &NotFoundError{What: "deck", ID: id}
	}
	return d, nil
}

// List returns the decks sorted by ID.
func (l *Library) List() []*Deck {
	out := make([]*Deck, 0, len(l.ids))
	for _, id := range l.ids {
		out = append(out, l.decks[id])
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if sameAnswer(item, s) {
			return true
		}
	}
	return false
}

func sameAnswer(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
