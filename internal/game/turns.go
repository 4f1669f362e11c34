package game

import "quadquiz-service/internal/domain"

// Turns sequences the players of one round. Players answer strictly in seat
// order; a submission may be overwritten until the turn advances, and a
// timeout records the sentinel answer before advancing.
type Turns struct {
	playerCount int
	current     int
	answers     map[int]int
	allAnswered bool
}

// NewTurns starts a round at player zero with no answers recorded.
func NewTurns(playerCount int) *Turns {
	return &Turns{
		playerCount: playerCount,
		answers:     make(map[int]int),
	}
}

// Current returns the index of the player whose turn it is.
func (t *Turns) Current() int { return t.current }

// AllAnswered reports whether the round has collected every player's answer.
func (t *Turns) AllAnswered() bool { return t.allAnswered }

// Answer returns the recorded answer for a player, if any.
func (t *Turns) Answer(player int) (int, bool) {
	answer, ok := t.answers[player]
	return answer, ok
}

// Answered returns the player indices with a recorded answer, in seat order.
func (t *Turns) Answered() []int {
	players := make([]int, 0, len(t.answers))
	for p := 0; p < t.playerCount; p++ {
		if _, ok := t.answers[p]; ok {
			players = append(players, p)
		}
	}
	return players
}

// Submit records the current player's option choice. Resubmitting overwrites
// the prior selection; the turn does not advance until Advance is called.
func (t *Turns) Submit(player, option int) error {
	if t.allAnswered {
		return domain.ErrRoundComplete
	}
	if player != t.current {
		return domain.ErrNotCurrentPlayer
	}
	if option < 0 || option >= domain.OptionCount {
		return domain.ErrInvalidOption
	}
	t.answers[player] = option
	return nil
}

// Advance moves to the next player, or completes the round when the last
// player has answered. The current player must have an answer on record.
func (t *Turns) Advance() error {
	if t.allAnswered {
		return domain.ErrRoundComplete
	}
	if _, ok := t.answers[t.current]; !ok {
		return domain.ErrAnswerRequired
	}
	if t.current == t.playerCount-1 {
		t.allAnswered = true
		return nil
	}
	t.current++
	return nil
}

// ForceTimeout records the sentinel answer for the current player and
// advances, exactly as a submit-then-advance would.
func (t *Turns) ForceTimeout() {
	if t.allAnswered {
		return
	}
	t.answers[t.current] = domain.NoAnswer
	if t.current == t.playerCount-1 {
		t.allAnswered = true
		return
	}
	t.current++
}

// Reset clears the round back to player zero with no answers.
func (t *Turns) Reset() {
	t.current = 0
	t.allAnswered = false
	t.answers = make(map[int]int)
}
