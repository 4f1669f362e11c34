package domain

// OptionCount is fixed: every question carries exactly four choices.
const OptionCount = 4

// Any is the wildcard filter value matching every genre or difficulty.
const Any = "any"

// MaxPlayers bounds the pass-and-play seat count.
const MaxPlayers = 4

// PlayerLabels maps a player index to its display label.
var PlayerLabels = [MaxPlayers]string{"A", "B", "C", "D"}

// NoAnswer marks a player as having timed out or never answered the round.
const NoAnswer = -1

// Question is one immutable row of the question bank. Identity is the
// bank-assigned ID; CorrectOption is 1-based as in the source data.
type Question struct {
	ID            int                 `json:"id"`
	Text          string              `json:"text"`
	Options       [OptionCount]string `json:"options"`
	CorrectOption int                 `json:"correctOption"`
	Genre         string              `json:"genre"`
	Difficulty    string              `json:"difficulty"`
	Explanations  [OptionCount]string `json:"explanations"`
}

// Bank is the full loaded question set.
type Bank []Question

// Filter narrows the bank by genre and difficulty; either field may be Any.
type Filter struct {
	Genre      string `json:"genre"`
	Difficulty string `json:"difficulty"`
}

// Key identifies the asked-history bucket for this filter combination.
// Wildcards are part of the key: (any, hard) and (science, any) are
// distinct histories.
func (f Filter) Key() string {
	return f.Genre + "|" + f.Difficulty
}

// Matches reports whether q passes the non-wildcard criteria.
func (f Filter) Matches(q Question) bool {
	if f.Genre != Any && q.Genre != f.Genre {
		return false
	}
	if f.Difficulty != Any && q.Difficulty != f.Difficulty {
		return false
	}
	return true
}

// GameConfig is the per-game configuration chosen at start.
// QuestionLimit counts answers across all players; zero means unbounded.
// TimeLimitSec is the per-turn window; zero means unbounded.
type GameConfig struct {
	Filter        Filter `json:"filter"`
	PlayerCount   int    `json:"playerCount"`
	QuestionLimit int    `json:"questionLimit"`
	TimeLimitSec  int    `json:"timeLimitSec"`
}

// PlayerScore accumulates one player's results for the whole game.
// Correct never exceeds Total.
type PlayerScore struct {
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Points  float64 `json:"points"`
}

// Accuracy is the correct/total ratio as a percentage, zero before any answer.
func (s PlayerScore) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total) * 100
}

// RankingEntry is one row of the end-of-game ranking.
type RankingEntry struct {
	Player   int     `json:"player"`
	Label    string  `json:"label"`
	Rank     int     `json:"rank"`
	Points   float64 `json:"points"`
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Accuracy float64 `json:"accuracy"`
}

// PlayerResult summarizes one player's outcome for a finished round.
type PlayerResult struct {
	Player  int     `json:"player"`
	Label   string  `json:"label"`
	Answer  int     `json:"answer"` // shuffled option index, NoAnswer on timeout
	Correct bool    `json:"correct"`
	Awarded float64 `json:"awarded"`
}
