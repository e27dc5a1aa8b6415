package gruppenspiel

import "encoding/json"

type MinigameKind string

const (
	KindPhysical MinigameKind = "physical"
	KindQuiz     MinigameKind = "quiz"
)

// Scoring holds optional point awards; nil means "use the default".
type Scoring struct {
	Win     *int `json:"win,omitempty"`
	Lose    *int `json:"lose,omitempty"`
	Correct *int `json:"correct,omitempty"`
	Wrong   *int `json:"wrong,omitempty"`
}

func (s Scoring) WinOr(def int) int     { return intOr(s.Win, def) }
func (s Scoring) CorrectOr(def int) int { return intOr(s.Correct, def) }

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

type MinigameBase struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	TimeLimitSec int     `json:"timeLimitSec"`
	Scoring      Scoring `json:"scoring"`
}

// Minigame is implemented only by PhysicalMinigame and QuizMinigame.
type Minigame interface {
	Base() MinigameBase
	Kind() MinigameKind
	isMinigame()
}

type PhysicalMinigame struct {
	MinigameBase
	Rules []string `json:"rules"`
}

func (m PhysicalMinigame) Base() MinigameBase { return m.MinigameBase }
func (PhysicalMinigame) Kind() MinigameKind   { return KindPhysical }
func (PhysicalMinigame) isMinigame()          {}

func (m PhysicalMinigame) MarshalJSON() ([]byte, error) {
	type plain PhysicalMinigame
	return json.Marshal(struct {
		Type MinigameKind `json:"type"`
		plain
	}{KindPhysical, plain(m)})
}

type QuizMinigame struct {
	MinigameBase
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

func (m QuizMinigame) Base() MinigameBase { return m.MinigameBase }
func (QuizMinigame) Kind() MinigameKind   { return KindQuiz }
func (QuizMinigame) isMinigame()          {}

func (m QuizMinigame) MarshalJSON() ([]byte, error) {
	type plain QuizMinigame
	return json.Marshal(struct {
		Type MinigameKind `json:"type"`
		plain
	}{KindQuiz, plain(m)})
}
