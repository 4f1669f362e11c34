package app

import (
	"context"
	"sync"

	"quadquiz-service/internal/domain"
	"quadquiz-service/internal/game"
)

// SessionRepository abstracts how game sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Save(session *game.Session)
	Get(gameID string) (*game.Session, bool)
	Delete(gameID string)
}

// BankRepository loads the question bank (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context) (domain.Bank, error)
}

// HintProvider produces a non-revealing hint from the correct answer's
// explanation. Step escalates from 1 to 2 within one question.
type HintProvider interface {
	GenerateHint(ctx context.Context, explanation, difficulty string, step int) (string, error)
}

// GameService contains the game use cases. Every mutating operation locks
// the target session: the core state machine is single-writer by design.
type GameService struct {
	sessions SessionRepository
	bank     BankRepository
	hints    HintProvider

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewGameService(sessions SessionRepository, bank BankRepository, hints HintProvider) *GameService {
	return &GameService{
		sessions: sessions,
		bank:     bank,
		hints:    hints,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *GameService) sessionLock(gameID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[gameID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[gameID] = lock
	}
	return lock
}

// withSession runs fn with the session locked, after the opportunistic
// timeout check every interaction performs.
func (s *GameService) withSession(gameID string, fn func(*game.Session) error) (GameView, error) {
	lock := s.sessionLock(gameID)
	lock.Lock()
	defer lock.Unlock()

	session, ok := s.sessions.Get(gameID)
	if !ok {
		return GameView{}, domain.ErrGameNotFound
	}
	timedOut := session.CheckTimeout()
	if err := fn(session); err != nil {
		view := newGameView(session)
		view.TimedOut = timedOut
		return view, err
	}
	view := newGameView(session)
	view.TimedOut = timedOut
	return view, nil
}

// StartGame creates (or replaces) the session for gameID and draws the first
// question. A filter matching nothing is not an error; the sticky
// no-questions state is surfaced in the returned view.
func (s *GameService) StartGame(ctx context.Context, gameID string, cfg domain.GameConfig) (GameView, error) {
	bank, err := s.bank.GetBank(ctx)
	if err != nil {
		return GameView{}, err
	}

	lock := s.sessionLock(gameID)
	lock.Lock()
	defer lock.Unlock()

	session, err := game.NewSession(gameID, bank, cfg)
	if err != nil {
		return GameView{}, err
	}
	session.Start()
	s.sessions.Save(session)
	return newGameView(session), nil
}

// SubmitAnswer records the player's option choice for the current round.
func (s *GameService) SubmitAnswer(gameID string, player, option int) (GameView, error) {
	return s.withSession(gameID, func(session *game.Session) error {
		return session.Submit(player, option)
	})
}

// AdvancePlayer hands the turn to the next player; on the last player the
// round is scored and the view carries the results.
func (s *GameService) AdvancePlayer(gameID string) (GameView, error) {
	return s.withSession(gameID, func(session *game.Session) error {
		return session.Advance()
	})
}

// NextQuestion moves the game to the following round, or over the finish line.
func (s *GameService) NextQuestion(gameID string) (GameView, error) {
	return s.withSession(gameID, func(session *game.Session) error {
		return session.NextQuestion()
	})
}

// EndGame finishes the game and returns the final rankings.
func (s *GameService) EndGame(gameID string) ([]domain.RankingEntry, error) {
	lock := s.sessionLock(gameID)
	lock.Lock()
	defer lock.Unlock()

	session, ok := s.sessions.Get(gameID)
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	session.End()
	return session.Rankings(), nil
}

// Rankings returns the current standings without ending the game.
func (s *GameService) Rankings(gameID string) ([]domain.RankingEntry, error) {
	lock := s.sessionLock(gameID)
	lock.Lock()
	defer lock.Unlock()

	session, ok := s.sessions.Get(gameID)
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return session.Rankings(), nil
}

// State returns a fresh snapshot, applying the timeout check like any other
// interaction. Clients poll this to keep a countdown honest.
func (s *GameService) State(gameID string) (GameView, error) {
	return s.withSession(gameID, func(*game.Session) error { return nil })
}

// RequestHint generates an escalating hint for the current round. The
// provider call runs outside the session lock; hint bookkeeping is applied
// only if the same round is still running when the hint comes back, and a
// provider failure never touches game state.
func (s *GameService) RequestHint(ctx context.Context, gameID string) (string, error) {
	lock := s.sessionLock(gameID)

	lock.Lock()
	session, ok := s.sessions.Get(gameID)
	if !ok {
		lock.Unlock()
		return "", domain.ErrGameNotFound
	}
	session.CheckTimeout()
	round := session.Round()
	if round == nil || session.ResultsReady() {
		lock.Unlock()
		return "", domain.ErrRoundNotFinished
	}
	explanation := round.Question.Explanations[round.Question.CorrectOption-1]
	difficulty := round.Question.Difficulty
	step := session.HintStep()
	questionNumber := session.QuestionNumber()
	lock.Unlock()

	hint, err := s.hints.GenerateHint(ctx, explanation, difficulty, step)
	if err != nil {
		return "", err
	}

	lock.Lock()
	defer lock.Unlock()
	if current, ok := s.sessions.Get(gameID); ok && current.QuestionNumber() == questionNumber {
		current.MarkHintUsed()
	}
	return hint, nil
}

// DeleteGame drops the session, e.g. when its connection goes away.
func (s *GameService) DeleteGame(gameID string) {
	lock := s.sessionLock(gameID)
	lock.Lock()
	defer lock.Unlock()
	s.sessions.Delete(gameID)
}
