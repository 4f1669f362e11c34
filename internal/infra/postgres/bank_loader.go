package postgres

import (
	"context"
	"fmt"
	"strings"

	"quadquiz-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Loader reads the question bank from the questions table.
type Loader struct {
	pool *pgxpool.Pool
}

func NewLoader(pool *pgxpool.Pool) *Loader {
	return &Loader{pool: pool}
}

func (l *Loader) LoadBank(ctx context.Context) (domain.Bank, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id, question, option1, option2, option3, option4,
		       correct_option, genre, difficulty, option_explanations
		FROM questions
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	bank := domain.Bank{}
	for rows.Next() {
		var q domain.Question
		var explanations string
		if err := rows.Scan(
			&q.ID, &q.Text,
			&q.Options[0], &q.Options[1], &q.Options[2], &q.Options[3],
			&q.CorrectOption, &q.Genre, &q.Difficulty, &explanations,
		); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if q.CorrectOption < 1 || q.CorrectOption > domain.OptionCount {
			return nil, fmt.Errorf("question %d: invalid correct_option %d", q.ID, q.CorrectOption)
		}
		segments := strings.Split(explanations, "|")
		if len(segments) != domain.OptionCount {
			return nil, fmt.Errorf("question %d: expected %d explanation segments, got %d", q.ID, domain.OptionCount, len(segments))
		}
		for i, segment := range segments {
			q.Explanations[i] = strings.TrimSpace(segment)
		}
		bank = append(bank, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(bank) == 0 {
		return nil, fmt.Errorf("questions table is empty")
	}
	return bank, nil
}
