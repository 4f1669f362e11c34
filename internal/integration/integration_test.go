package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"quadquiz-service/internal/app"
	"quadquiz-service/internal/domain"
	pgbank "quadquiz-service/internal/infra/postgres"
	pgmigrations "quadquiz-service/internal/infra/postgres/migrations"
	infraredis "quadquiz-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

type noHints struct{}

func (noHints) GenerateHint(context.Context, string, string, int) (string, error) {
	return "", domain.ErrHintNotConfigured
}

func TestGameRoundEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedQuestions(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgbank.NewLoader(pool)

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	bankRepo := infraredis.NewBankRepository(redisClient, loader, 5*time.Minute)
	sessionStore := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	service := app.NewGameService(sessionStore, bankRepo, noHints{})

	view, err := service.StartGame(ctx, "game-1", domain.GameConfig{
		Filter:      domain.Filter{Genre: "science", Difficulty: "easy"},
		PlayerCount: 2,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if view.Question == nil {
		t.Fatalf("expected a question from the seeded bank")
	}

	correct := -1
	for i, opt := range view.Question.Options {
		if opt == "Jupiter" {
			correct = i
		}
	}
	if correct < 0 {
		t.Fatalf("correct option missing from %v", view.Question.Options)
	}

	if _, err := service.SubmitAnswer("game-1", 0, correct); err != nil {
		t.Fatalf("submit p0: %v", err)
	}
	if _, err := service.AdvancePlayer("game-1"); err != nil {
		t.Fatalf("advance p0: %v", err)
	}
	if _, err := service.SubmitAnswer("game-1", 1, (correct+1)%4); err != nil {
		t.Fatalf("submit p1: %v", err)
	}
	view, err = service.AdvancePlayer("game-1")
	if err != nil {
		t.Fatalf("advance p1: %v", err)
	}
	if view.Results == nil {
		t.Fatalf("expected results after both players answered")
	}

	rankings, err := service.EndGame("game-1")
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if rankings[0].Label != "A" || rankings[0].Points != 1 {
		t.Fatalf("expected A leading with 1 point, got %+v", rankings[0])
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedQuestions(t *testing.T, ctx context.Context, dsn string) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	rows := [][]any{
		{"Largest planet?", "Mars", "Venus", "Jupiter", "Saturn", 3, "science", "easy",
			"smaller|smaller|largest by far|second largest"},
		{"Chemical symbol for gold?", "Au", "Ag", "Fe", "Pb", 1, "science", "easy",
			"aurum|silver|iron|lead"},
	}
	for _, row := range rows {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO questions (question, option1, option2, option3, option4,
			                       correct_option, genre, difficulty, option_explanations)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, row...); err != nil {
			t.Fatalf("insert question: %v", err)
		}
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
