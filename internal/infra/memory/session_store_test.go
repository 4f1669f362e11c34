package memory

import (
	"testing"

	"quadquiz-service/internal/domain"
	"quadquiz-service/internal/game"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	session, err := game.NewSession("game-1", domain.Bank{}, domain.GameConfig{
		Filter:      domain.Filter{Genre: domain.Any, Difficulty: domain.Any},
		PlayerCount: 1,
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	store.Save(session)
	if _, ok := store.Get("game-1"); !ok {
		t.Fatalf("expected session present")
	}

	store.Delete("game-1")
	if _, ok := store.Get("game-1"); ok {
		t.Fatalf("expected session removed")
	}
}
