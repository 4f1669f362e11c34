package game

import (
	"sort"

	"quadquiz-service/internal/domain"
)

// Scoreboard accumulates per-player results for the whole game.
// Entries are created lazily on the first scoring event for a player.
type Scoreboard struct {
	scores map[int]*domain.PlayerScore
}

// NewScoreboard returns an empty scoreboard.
func NewScoreboard() *Scoreboard {
	return &Scoreboard{scores: make(map[int]*domain.PlayerScore)}
}

// pointsFor implements the award table: incorrect 0, correct 1,
// correct with a hint 0.5.
func pointsFor(correct, hintUsed bool) float64 {
	if !correct {
		return 0
	}
	if hintUsed {
		return 0.5
	}
	return 1
}

// Score applies one answer event and returns the updated record.
// Total increments on every call, including timeouts scored as incorrect.
// The caller guards against scoring the same player twice in one round;
// repeated calls here would double-count.
func (b *Scoreboard) Score(player int, correct, hintUsed bool) domain.PlayerScore {
	score, ok := b.scores[player]
	if !ok {
		score = &domain.PlayerScore{}
		b.scores[player] = score
	}
	score.Total++
	score.Points += pointsFor(correct, hintUsed)
	if correct {
		score.Correct++
	}
	return *score
}

// Get returns the player's score, zero-valued if never scored.
func (b *Scoreboard) Get(player int) domain.PlayerScore {
	if score, ok := b.scores[player]; ok {
		return *score
	}
	return domain.PlayerScore{}
}

// TotalAnswers is the cumulative answer count across all players, used for
// the question-limit check.
func (b *Scoreboard) TotalAnswers() int {
	total := 0
	for _, score := range b.scores {
		total += score.Total
	}
	return total
}

// Rankings orders all seats by points descending. Ties keep the original
// player order, so equal scores rank seat A ahead of seat B.
func (b *Scoreboard) Rankings(playerCount int) []domain.RankingEntry {
	entries := make([]domain.RankingEntry, 0, playerCount)
	for p := 0; p < playerCount; p++ {
		score := b.Get(p)
		entries = append(entries, domain.RankingEntry{
			Player:   p,
			Label:    domain.PlayerLabels[p],
			Points:   score.Points,
			Correct:  score.Correct,
			Total:    score.Total,
			Accuracy: score.Accuracy(),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Reset drops every score, for an explicit new game.
func (b *Scoreboard) Reset() {
	b.scores = make(map[int]*domain.PlayerScore)
}
