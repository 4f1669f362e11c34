package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"quadquiz-service/internal/domain"
)

var (
	// ErrFileMissing is returned when the questions file does not exist.
	ErrFileMissing = errors.New("questions file not found")
	// ErrFileEmpty is returned for a file with no content at all.
	ErrFileEmpty = errors.New("questions file is empty")
	// ErrMissingColumns is returned when required header columns are absent.
	ErrMissingColumns = errors.New("questions file is missing required columns")
	// ErrNoRows is returned for a header-only file.
	ErrNoRows = errors.New("questions file has no data rows")
)

var requiredColumns = []string{
	"question", "option1", "option2", "option3", "option4",
	"correct_option", "genre", "difficulty", "option_explanations",
}

// Loader reads the question bank from a CSV file. Loading fails fast on a
// missing file, an empty file, missing columns, or zero data rows, each with
// a distinguishable error.
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

func (l *Loader) LoadBank(_ context.Context) (domain.Bank, error) {
	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileMissing, l.path)
		}
		return nil, fmt.Errorf("open questions file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s", ErrFileEmpty, l.path)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	bank := domain.Bank{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(bank)+2, err)
		}
		question, err := parseRow(record, columns, len(bank)+1)
		if err != nil {
			return nil, err
		}
		bank = append(bank, question)
	}
	if len(bank) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRows, l.path)
	}
	return bank, nil
}

func indexColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			// files exported with a UTF-8 BOM keep their first column usable
			name = strings.TrimPrefix(name, "\ufeff")
		}
		columns[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return columns, nil
}

func parseRow(record []string, columns map[string]int, id int) (domain.Question, error) {
	field := func(name string) string {
		return strings.TrimSpace(record[columns[name]])
	}

	correct, err := strconv.Atoi(field("correct_option"))
	if err != nil || correct < 1 || correct > domain.OptionCount {
		return domain.Question{}, fmt.Errorf("row %d: invalid correct_option %q", id, field("correct_option"))
	}

	question := domain.Question{
		ID:            id,
		Text:          field("question"),
		CorrectOption: correct,
		Genre:         field("genre"),
		Difficulty:    field("difficulty"),
	}
	for i := 0; i < domain.OptionCount; i++ {
		question.Options[i] = field(fmt.Sprintf("option%d", i+1))
	}

	segments := strings.Split(field("option_explanations"), "|")
	if len(segments) != domain.OptionCount {
		return domain.Question{}, fmt.Errorf("row %d: expected %d explanation segments, got %d", id, domain.OptionCount, len(segments))
	}
	for i, segment := range segments {
		question.Explanations[i] = strings.TrimSpace(segment)
	}
	return question, nil
}
