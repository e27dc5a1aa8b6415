package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/playperu/gruppenspiel/internal/gruppenspiel"
)

func validateMap(id string, m gruppenspiel.MapDefinition) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: map %s: %s", ErrInvalidContent, id, fmt.Sprintf(format, args...))
	}

	switch {
	case m.ID == "":
		return invalid("missing id")
	case m.ID != id:
		return invalid("id %q does not match file", m.ID)
	case m.Name == "":
		return invalid("missing name")
	case m.Length < 1:
		return invalid("length %d", m.Length)
	case len(m.Tiles) != m.Length:
		return invalid("%d tiles for length %d", len(m.Tiles), m.Length)
	}
	for i, t := range m.Tiles {
		if t.Index != i {
			return invalid("tile %d has index %d", i, t.Index)
		}
		if !t.Type.Valid() {
			return invalid("tile %d has type %q", i, t.Type)
		}
	}
	return nil
}

// minigameDoc mirrors both minigame arms with pointers where presence
// matters.
type minigameDoc struct {
	ID           string                    `json:"id"`
	Name         string                    `json:"name"`
	Type         gruppenspiel.MinigameKind `json:"type"`
	Description  string                    `json:"description"`
	TimeLimitSec int                       `json:"timeLimitSec"`
	Scoring      *gruppenspiel.Scoring     `json:"scoring"`

	Rules []string `json:"rules"`

	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correctIndex"`
}

func decodeMinigame(id string, data []byte) (gruppenspiel.Minigame, error) {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: minigame %s: %s", ErrInvalidContent, id, fmt.Sprintf(format, args...))
	}

	var doc minigameDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, invalid("%v", err)
	}
	switch {
	case doc.ID == "":
		return nil, invalid("missing id")
	case doc.ID != id:
		return nil, invalid("id %q does not match file", doc.ID)
	case doc.Name == "":
		return nil, invalid("missing name")
	case doc.Scoring == nil:
		return nil, invalid("missing scoring")
	case doc.TimeLimitSec < 0:
		return nil, invalid("negative time limit")
	}

	base := gruppenspiel.MinigameBase{
		ID:           doc.ID,
		Name:         doc.Name,
		Description:  doc.Description,
		TimeLimitSec: doc.TimeLimitSec,
		Scoring:      *doc.Scoring,
	}

	switch doc.Type {
	case gruppenspiel.KindPhysical:
		if doc.Rules == nil {
			return nil, invalid("missing rules")
		}
		return gruppenspiel.PhysicalMinigame{MinigameBase: base, Rules: doc.Rules}, nil

	case gruppenspiel.KindQuiz:
		switch {
		case doc.Question == "":
			return nil, invalid("missing question")
		case len(doc.Options) == 0:
			return nil, invalid("no options")
		case doc.CorrectIndex == nil:
			return nil, invalid("missing correctIndex")
		case *doc.CorrectIndex < 0 || *doc.CorrectIndex >= len(doc.Options):
			return nil, invalid("correctIndex %d out of range for %d options", *doc.CorrectIndex, len(doc.Options))
		}
		return gruppenspiel.QuizMinigame{
			MinigameBase: base,
			Question:     doc.Question,
			Options:      doc.Options,
			CorrectIndex: *doc.CorrectIndex,
		}, nil

	case "":
		return nil, invalid("missing type")
	default:
		return nil, invalid("unknown type %q", doc.Type)
	}
}
