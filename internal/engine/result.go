package engine

// MinigameResult is the outcome entered by the host when a minigame ends.
// It is implemented by PhysicalResult and QuizResult and must match the
// kind of the active minigame.
type MinigameResult interface {
	isMinigameResult()
}

// PhysicalResult either names a winning team or gives ManualPoints to the
// current team. A winner takes precedence; the two are never combined.
type PhysicalResult struct {
	WinnerTeamID string `json:"winnerTeamId,omitempty"`
	ManualPoints int    `json:"manualPoints,omitempty"`
}

// QuizResult lists the teams that answered correctly. Duplicates count once.
type QuizResult struct {
	CorrectTeamIDs []string `json:"correctTeamIds"`
}

func (PhysicalResult) isMinigameResult() {}
func (QuizResult) isMinigameResult()     {}
