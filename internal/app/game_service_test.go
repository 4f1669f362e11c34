package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quadquiz-service/internal/app"
	"quadquiz-service/internal/domain"
	"quadquiz-service/internal/infra/memory"
)

type stubHints struct {
	hint string
	err  error
	last int
}

func (s *stubHints) GenerateHint(_ context.Context, _, _ string, step int) (string, error) {
	s.last = step
	return s.hint, s.err
}

func newTestService(hints app.HintProvider) *app.GameService {
	store := memory.NewSessionStore()
	bankRepo := memory.NewBankRepository(memory.NewStaticBankLoader(testBank()), 5*time.Minute)
	return app.NewGameService(store, bankRepo, hints)
}

func testBank() domain.Bank {
	return domain.Bank{
		{
			ID: 1, Text: "What is 2 + 2?",
			Options:       [4]string{"3", "4", "5", "6"},
			CorrectOption: 2,
			Genre:         "math", Difficulty: "easy",
			Explanations: [4]string{"off by one", "basic addition", "off by one", "off by two"},
		},
		{
			ID: 2, Text: "Largest planet?",
			Options:       [4]string{"Mars", "Venus", "Jupiter", "Saturn"},
			CorrectOption: 3,
			Genre:         "science", Difficulty: "easy",
			Explanations: [4]string{"smaller", "smaller", "largest by far", "second largest"},
		},
	}
}

func startConfig(players int) domain.GameConfig {
	return domain.GameConfig{
		Filter:      domain.Filter{Genre: domain.Any, Difficulty: domain.Any},
		PlayerCount: players,
	}
}

func findOption(view app.GameView, text string) int {
	for i, opt := range view.Question.Options {
		if opt == text {
			return i
		}
	}
	return -1
}

func TestStartAndPlayRound(t *testing.T) {
	ctx := context.Background()
	service := newTestService(&stubHints{hint: "think of arithmetic"})

	view, err := service.StartGame(ctx, "game-1", startConfig(2))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if view.Question == nil || view.Question.Number != 1 {
		t.Fatalf("expected first question, got %+v", view.Question)
	}
	if view.CurrentLabel != "A" {
		t.Fatalf("expected player A first, got %s", view.CurrentLabel)
	}

	// Both questions are "easy"; find a wrong option for player A by text.
	wrong := 0
	if view.Question.Options[wrong] == "4" || view.Question.Options[wrong] == "Jupiter" {
		wrong = 1
	}
	if _, err := service.SubmitAnswer("game-1", 0, wrong); err != nil {
		t.Fatalf("submit p0: %v", err)
	}
	view, err = service.AdvancePlayer("game-1")
	if err != nil {
		t.Fatalf("advance p0: %v", err)
	}
	if view.Results != nil {
		t.Fatalf("results leaked before last player")
	}
	if view.CurrentLabel != "B" {
		t.Fatalf("expected player B, got %s", view.CurrentLabel)
	}

	correctText := "4"
	if view.Question.Text != "What is 2 + 2?" {
		correctText = "Jupiter"
	}
	if _, err := service.SubmitAnswer("game-1", 1, findOption(view, correctText)); err != nil {
		t.Fatalf("submit p1: %v", err)
	}
	view, err = service.AdvancePlayer("game-1")
	if err != nil {
		t.Fatalf("advance p1: %v", err)
	}
	if view.Results == nil {
		t.Fatalf("expected results after last player")
	}
	if view.Results.CorrectText != correctText {
		t.Fatalf("expected correct text %q, got %q", correctText, view.Results.CorrectText)
	}
	if len(view.Results.Players) != 2 {
		t.Fatalf("expected 2 player results, got %d", len(view.Results.Players))
	}
	if view.Results.Players[0].Correct || !view.Results.Players[1].Correct {
		t.Fatalf("unexpected outcomes %+v", view.Results.Players)
	}
	if view.Scores[1].Score.Points != 1 {
		t.Fatalf("expected 1 point for B, got %.1f", view.Scores[1].Score.Points)
	}

	// Advance through the second question to game over.
	view, err = service.NextQuestion("game-1")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if view.Question == nil || view.Question.Number != 2 {
		t.Fatalf("expected question 2, got %+v", view.Question)
	}

	rankings, err := service.EndGame("game-1")
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if rankings[0].Label != "B" || rankings[0].Rank != 1 {
		t.Fatalf("expected B on top, got %+v", rankings[0])
	}
}

func TestStartWithEmptyFilterIsSticky(t *testing.T) {
	service := newTestService(&stubHints{})

	view, err := service.StartGame(context.Background(), "game-1", domain.GameConfig{
		Filter:      domain.Filter{Genre: "history", Difficulty: domain.Any},
		PlayerCount: 1,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !view.NoQuestions || view.Question != nil {
		t.Fatalf("expected sticky no-questions view, got %+v", view)
	}

	if _, err := service.SubmitAnswer("game-1", 0, 0); err != domain.ErrNoQuestionsAvailable {
		t.Fatalf("expected no-questions guard, got %v", err)
	}

	// Changing filters means starting again; that must always be accepted.
	view, err = service.StartGame(context.Background(), "game-1", startConfig(1))
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if view.NoQuestions || view.Question == nil {
		t.Fatalf("expected playable game after filter change")
	}
}

func TestActionsRequireGame(t *testing.T) {
	service := newTestService(&stubHints{})

	if _, err := service.SubmitAnswer("nope", 0, 0); err != domain.ErrGameNotFound {
		t.Fatalf("expected game not found, got %v", err)
	}
	if _, err := service.RequestHint(context.Background(), "nope"); err != domain.ErrGameNotFound {
		t.Fatalf("expected game not found, got %v", err)
	}
	if _, err := service.EndGame("nope"); err != domain.ErrGameNotFound {
		t.Fatalf("expected game not found, got %v", err)
	}
}

func TestHintHalvesAwardAndEscalates(t *testing.T) {
	ctx := context.Background()
	hints := &stubHints{hint: "it is the biggest"}
	service := newTestService(hints)

	view, err := service.StartGame(ctx, "game-1", startConfig(1))
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	hint, err := service.RequestHint(ctx, "game-1")
	if err != nil {
		t.Fatalf("hint: %v", err)
	}
	if hint != "it is the biggest" || hints.last != 1 {
		t.Fatalf("unexpected hint %q (step %d)", hint, hints.last)
	}

	if _, err := service.RequestHint(ctx, "game-1"); err != nil {
		t.Fatalf("second hint: %v", err)
	}
	if hints.last != 2 {
		t.Fatalf("expected escalated step 2, got %d", hints.last)
	}

	correctText := "4"
	if view.Question.Text != "What is 2 + 2?" {
		correctText = "Jupiter"
	}
	if _, err := service.SubmitAnswer("game-1", 0, findOption(view, correctText)); err != nil {
		t.Fatalf("submit: %v", err)
	}
	view, err = service.AdvancePlayer("game-1")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if view.Scores[0].Score.Points != 0.5 {
		t.Fatalf("expected 0.5 points after hint, got %.1f", view.Scores[0].Score.Points)
	}
}

func TestHintFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	service := newTestService(&stubHints{err: domain.ErrHintNotConfigured})

	view, err := service.StartGame(ctx, "game-1", startConfig(1))
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := service.RequestHint(ctx, "game-1"); !errors.Is(err, domain.ErrHintNotConfigured) {
		t.Fatalf("expected hint error, got %v", err)
	}

	// Scoring still awards the full point: the failed hint never registered.
	correctText := "4"
	if view.Question.Text != "What is 2 + 2?" {
		correctText = "Jupiter"
	}
	if _, err := service.SubmitAnswer("game-1", 0, findOption(view, correctText)); err != nil {
		t.Fatalf("submit after failed hint: %v", err)
	}
	view, err = service.AdvancePlayer("game-1")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if view.Scores[0].Score.Points != 1 {
		t.Fatalf("failed hint must not halve the award, got %.1f", view.Scores[0].Score.Points)
	}
}
