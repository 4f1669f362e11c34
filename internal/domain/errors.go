package domain

import "errors"

var (
	// ErrNoQuestionsAvailable is returned when the filter matches zero bank rows.
	// Recoverable by changing filters; distinct from exhaustion.
	ErrNoQuestionsAvailable = errors.New("no questions available for this filter")
	// ErrQuestionsExhausted is returned when every matching question has been asked.
	ErrQuestionsExhausted = errors.New("all questions for this filter have been asked")
	// ErrGameNotFound is returned when a game session has not been started.
	ErrGameNotFound = errors.New("game session not found")
	// ErrGameFinished is returned when an action arrives after the game ended.
	ErrGameFinished = errors.New("game already finished")
	// ErrNotCurrentPlayer is returned when a player acts out of turn.
	ErrNotCurrentPlayer = errors.New("not this player's turn")
	// ErrAnswerRequired is returned when the turn is advanced before the
	// current player has picked an option.
	ErrAnswerRequired = errors.New("current player has not answered")
	// ErrRoundNotFinished is returned when results are requested before
	// every player has answered.
	ErrRoundNotFinished = errors.New("round still has unanswered players")
	// ErrRoundComplete is returned when an answer arrives after the round
	// has already collected every player's answer.
	ErrRoundComplete = errors.New("round already complete")
	// ErrInvalidOption is returned for an answer index outside the four choices.
	ErrInvalidOption = errors.New("option index out of range")
	// ErrInvalidConfig is returned for an out-of-range game configuration.
	ErrInvalidConfig = errors.New("invalid game configuration")
	// ErrHintNotConfigured indicates the hint provider has no API credential.
	ErrHintNotConfigured = errors.New("hint provider not configured")
)
