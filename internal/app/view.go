package app

import (
	"quadquiz-service/internal/domain"
	"quadquiz-service/internal/game"
)

// QuestionView is the client-facing shape of the current question. Options
// appear in shuffled order and nothing marks the correct one.
type QuestionView struct {
	Number     int                        `json:"number"`
	Text       string                     `json:"text"`
	Options    [domain.OptionCount]string `json:"options"`
	Genre      string                     `json:"genre"`
	Difficulty string                     `json:"difficulty"`
}

// ResultView reveals the round outcome: who picked what, the correct option,
// and the per-option explanations aligned to the shuffled order.
type ResultView struct {
	Players      []domain.PlayerResult      `json:"players"`
	CorrectIndex int                        `json:"correctIndex"`
	CorrectText  string                     `json:"correctText"`
	Explanations [domain.OptionCount]string `json:"explanations"`
}

// SeatScore pairs a seat with its accumulated score for scoreboard display.
type SeatScore struct {
	Player int                `json:"player"`
	Label  string             `json:"label"`
	Score  domain.PlayerScore `json:"score"`
}

// GameView is the full snapshot sent to clients after every interaction.
type GameView struct {
	GameID        string        `json:"gameId"`
	Question      *QuestionView `json:"question,omitempty"`
	CurrentPlayer int           `json:"currentPlayer"`
	CurrentLabel  string        `json:"currentLabel"`
	RemainingSec  int           `json:"remainingSec"`
	Scores        []SeatScore   `json:"scores"`
	Results       *ResultView   `json:"results,omitempty"`
	NoQuestions   bool          `json:"noQuestions"`
	Exhausted     bool          `json:"exhausted"`
	Finished      bool          `json:"finished"`
	TimedOut      bool          `json:"timedOut"`
}

func newGameView(session *game.Session) GameView {
	cfg := session.Config()
	view := GameView{
		GameID:        session.ID(),
		CurrentPlayer: session.CurrentPlayer(),
		CurrentLabel:  domain.PlayerLabels[session.CurrentPlayer()],
		RemainingSec:  session.RemainingSeconds(),
		NoQuestions:   session.NoQuestionsAvailable(),
		Exhausted:     session.Exhausted(),
		Finished:      session.Finished(),
	}

	for p := 0; p < cfg.PlayerCount; p++ {
		view.Scores = append(view.Scores, SeatScore{
			Player: p,
			Label:  domain.PlayerLabels[p],
			Score:  session.Score(p),
		})
	}

	round := session.Round()
	if round == nil {
		return view
	}
	view.Question = &QuestionView{
		Number:     session.QuestionNumber(),
		Text:       round.Question.Text,
		Options:    round.Options,
		Genre:      round.Question.Genre,
		Difficulty: round.Question.Difficulty,
	}

	if session.ResultsReady() {
		players, err := session.Results()
		if err == nil {
			result := &ResultView{
				Players:      players,
				CorrectIndex: round.CorrectIndex,
				CorrectText:  round.Options[round.CorrectIndex],
			}
			for pos, slot := range round.OriginalIndex {
				result.Explanations[pos] = round.Question.Explanations[slot]
			}
			view.Results = result
		}
	}
	return view
}
