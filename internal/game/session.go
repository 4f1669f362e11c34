package game

import (
	"math/rand"
	"time"

	"quadquiz-service/internal/domain"
)

// maxHintStep caps hint escalation within one question.
const maxHintStep = 2

// Session owns the state of one running game: the current round, turn order,
// asked-question history, scoreboard, and terminal flags. It is not safe for
// concurrent use; callers serialize access per session.
type Session struct {
	id       string
	cfg      domain.GameConfig
	bank     domain.Bank
	selector *Selector
	turns    *Turns
	board    *Scoreboard
	history  History

	round          *Round
	questionNumber int
	hintStep       int
	hintUsed       map[int]bool
	scored         bool
	resultsReady   bool

	noQuestions bool
	exhausted   bool
	finished    bool

	turnStarted time.Time
	now         func() time.Time
}

// NewSession validates the configuration and creates a session over the
// given bank. The first question is not drawn until Start.
func NewSession(id string, bank domain.Bank, cfg domain.GameConfig) (*Session, error) {
	return NewSessionWithClock(id, bank, cfg, time.Now, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSessionWithClock allows deterministic timestamps and draws in tests.
func NewSessionWithClock(id string, bank domain.Bank, cfg domain.GameConfig, now func() time.Time, rnd *rand.Rand) (*Session, error) {
	if cfg.PlayerCount < 1 || cfg.PlayerCount > domain.MaxPlayers {
		return nil, domain.ErrInvalidConfig
	}
	if cfg.QuestionLimit < 0 || cfg.TimeLimitSec < 0 {
		return nil, domain.ErrInvalidConfig
	}
	if cfg.Filter.Genre == "" {
		cfg.Filter.Genre = domain.Any
	}
	if cfg.Filter.Difficulty == "" {
		cfg.Filter.Difficulty = domain.Any
	}
	return &Session{
		id:       id,
		cfg:      cfg,
		bank:     bank,
		selector: NewSelector(rnd),
		turns:    NewTurns(cfg.PlayerCount),
		board:    NewScoreboard(),
		history:  make(History),
		now:      now,
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Config returns the configuration the game was started with.
func (s *Session) Config() domain.GameConfig { return s.cfg }

// Start resets all per-game state and draws the first question.
func (s *Session) Start() {
	s.board.Reset()
	s.history = make(History)
	s.questionNumber = 1
	s.noQuestions = false
	s.exhausted = false
	s.finished = false
	s.draw()
}

// draw advances to a fresh round, or raises the matching sticky flag.
func (s *Session) draw() {
	round, err := s.selector.Draw(s.bank, s.cfg.Filter, s.history)
	switch err {
	case domain.ErrNoQuestionsAvailable:
		s.round = nil
		s.noQuestions = true
	case domain.ErrQuestionsExhausted:
		s.round = nil
		s.exhausted = true
		s.finished = true
	default:
		s.round = round
		s.turns.Reset()
		s.hintStep = 1
		s.hintUsed = make(map[int]bool)
		s.scored = false
		s.resultsReady = false
		s.turnStarted = s.now()
	}
}

func (s *Session) guardActive() error {
	if s.finished {
		return domain.ErrGameFinished
	}
	if s.noQuestions {
		return domain.ErrNoQuestionsAvailable
	}
	if s.round == nil {
		return domain.ErrRoundNotFinished
	}
	return nil
}

// Submit records the given player's option choice for the current round.
func (s *Session) Submit(player, option int) error {
	if err := s.guardActive(); err != nil {
		return err
	}
	return s.turns.Submit(player, option)
}

// Advance moves the turn to the next player. When the last player has
// answered, the round is scored and results become available.
func (s *Session) Advance() error {
	if err := s.guardActive(); err != nil {
		return err
	}
	if err := s.turns.Advance(); err != nil {
		return err
	}
	if s.turns.AllAnswered() {
		s.finalizeRound()
	} else {
		s.turnStarted = s.now()
	}
	return nil
}

// CheckTimeout fires at most one forced timeout when the current player's
// window has elapsed. Callers invoke it before handling any interaction; the
// deadline is only as precise as that polling cadence.
func (s *Session) CheckTimeout() bool {
	if s.cfg.TimeLimitSec == 0 || s.finished || s.round == nil || s.resultsReady {
		return false
	}
	limit := time.Duration(s.cfg.TimeLimitSec) * time.Second
	if s.now().Sub(s.turnStarted) < limit {
		return false
	}
	s.turns.ForceTimeout()
	if s.turns.AllAnswered() {
		s.finalizeRound()
	} else {
		s.turnStarted = s.now()
	}
	return true
}

// finalizeRound scores every player with a recorded answer, exactly once per
// round. The scored flag is the idempotency guard: scoring is additive, so a
// second invocation must never reach the scoreboard.
func (s *Session) finalizeRound() {
	if s.scored {
		return
	}
	for _, player := range s.turns.Answered() {
		answer, _ := s.turns.Answer(player)
		correct := answer != domain.NoAnswer && answer == s.round.CorrectIndex
		s.board.Score(player, correct, s.hintUsed[player])
	}
	s.scored = true
	s.resultsReady = true
}

// Results returns each answering player's outcome once the round is scored.
func (s *Session) Results() ([]domain.PlayerResult, error) {
	if !s.resultsReady || s.round == nil {
		return nil, domain.ErrRoundNotFinished
	}
	results := make([]domain.PlayerResult, 0, s.cfg.PlayerCount)
	for _, player := range s.turns.Answered() {
		answer, _ := s.turns.Answer(player)
		correct := answer != domain.NoAnswer && answer == s.round.CorrectIndex
		results = append(results, domain.PlayerResult{
			Player:  player,
			Label:   domain.PlayerLabels[player],
			Answer:  answer,
			Correct: correct,
			Awarded: pointsFor(correct, s.hintUsed[player]),
		})
	}
	return results, nil
}

// NextQuestion advances to the next round after results have been shown.
// The game ends when the filter is exhausted or the configured answer limit
// has been reached.
func (s *Session) NextQuestion() error {
	if s.finished {
		return domain.ErrGameFinished
	}
	if !s.resultsReady {
		return domain.ErrRoundNotFinished
	}
	s.questionNumber++
	s.draw()
	if s.finished {
		return nil
	}
	if s.cfg.QuestionLimit > 0 && s.board.TotalAnswers() >= s.cfg.QuestionLimit {
		s.round = nil
		s.finished = true
	}
	return nil
}

// End finishes the game; only Start is accepted afterwards.
func (s *Session) End() {
	s.finished = true
}

// HintStep returns the escalation step the next hint request should use.
func (s *Session) HintStep() int { return s.hintStep }

// MarkHintUsed records that the current player saw a hint this round and
// escalates the step up to the cap. Called only after a hint was actually
// delivered, so provider failures leave the round untouched.
func (s *Session) MarkHintUsed() {
	if s.round == nil || s.resultsReady {
		return
	}
	s.hintUsed[s.turns.Current()] = true
	if s.hintStep < maxHintStep {
		s.hintStep++
	}
}

// Round exposes the current round, nil between rounds or in terminal states.
func (s *Session) Round() *Round { return s.round }

// CurrentPlayer returns the seat whose turn it is.
func (s *Session) CurrentPlayer() int { return s.turns.Current() }

// QuestionNumber is 1-based and counts draws, not answers.
func (s *Session) QuestionNumber() int { return s.questionNumber }

// Finished reports the terminal game-over flag.
func (s *Session) Finished() bool { return s.finished }

// NoQuestionsAvailable reports the sticky empty-filter flag.
func (s *Session) NoQuestionsAvailable() bool { return s.noQuestions }

// Exhausted reports whether the filter ran out of unseen questions.
func (s *Session) Exhausted() bool { return s.exhausted }

// ResultsReady reports whether the current round has been scored.
func (s *Session) ResultsReady() bool { return s.resultsReady }

// Score returns a player's accumulated score.
func (s *Session) Score(player int) domain.PlayerScore { return s.board.Get(player) }

// Rankings returns the final ordering for all configured seats.
func (s *Session) Rankings() []domain.RankingEntry {
	return s.board.Rankings(s.cfg.PlayerCount)
}

// RemainingSeconds returns the current player's time budget, or -1 when the
// game is untimed or no turn is running.
func (s *Session) RemainingSeconds() int {
	if s.cfg.TimeLimitSec == 0 || s.round == nil || s.resultsReady || s.finished {
		return -1
	}
	elapsed := s.now().Sub(s.turnStarted)
	remaining := time.Duration(s.cfg.TimeLimitSec)*time.Second - elapsed
	if remaining < 0 {
		return 0
	}
	return int(remaining / time.Second)
}
