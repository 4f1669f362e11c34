package game

import (
	"math/rand"

	"quadquiz-service/internal/domain"
)

// History records asked question IDs per filter key for one game session.
// Buckets grow monotonically within a game and are dropped on reset.
type History map[string]map[int]struct{}

// Seen reports whether id was already drawn for the given filter key.
func (h History) Seen(key string, id int) bool {
	_, ok := h[key][id]
	return ok
}

func (h History) record(key string, id int) {
	bucket, ok := h[key]
	if !ok {
		bucket = make(map[int]struct{})
		h[key] = bucket
	}
	bucket[id] = struct{}{}
}

// Round is one drawn question with its shuffled presentation.
// Options holds the four choices in shuffled order; OriginalIndex maps each
// shuffled position back to the source option slot, which is how per-option
// explanations stay aligned after the shuffle.
type Round struct {
	Question      domain.Question
	Options       [domain.OptionCount]string
	OriginalIndex [domain.OptionCount]int
	CorrectIndex  int
}

// Selector draws unseen questions uniformly at random from a filtered bank.
type Selector struct {
	rnd *rand.Rand
}

// NewSelector builds a selector around the given random source.
func NewSelector(rnd *rand.Rand) *Selector {
	return &Selector{rnd: rnd}
}

// Draw picks an unseen question matching the filter, records it in history,
// and returns it with a fresh option shuffle.
//
// An empty filtered set yields domain.ErrNoQuestionsAvailable and leaves the
// history untouched. A non-empty filtered set with every ID already asked
// yields domain.ErrQuestionsExhausted.
func (s *Selector) Draw(bank domain.Bank, filter domain.Filter, history History) (*Round, error) {
	matching := make([]domain.Question, 0, len(bank))
	for _, q := range bank {
		if filter.Matches(q) {
			matching = append(matching, q)
		}
	}
	if len(matching) == 0 {
		return nil, domain.ErrNoQuestionsAvailable
	}

	key := filter.Key()
	remaining := matching[:0:0]
	for _, q := range matching {
		if !history.Seen(key, q.ID) {
			remaining = append(remaining, q)
		}
	}
	if len(remaining) == 0 {
		return nil, domain.ErrQuestionsExhausted
	}

	question := remaining[s.rnd.Intn(len(remaining))]
	history.record(key, question.ID)

	return s.shuffle(question), nil
}

// shuffle builds a uniform random permutation of the option slots and
// recomputes the correct index by text match. When two options share the
// correct text, the lowest shuffled index wins.
func (s *Selector) shuffle(q domain.Question) *Round {
	round := &Round{Question: q, CorrectIndex: -1}

	perm := s.rnd.Perm(domain.OptionCount)
	for pos, slot := range perm {
		round.Options[pos] = q.Options[slot]
		round.OriginalIndex[pos] = slot
	}

	correctText := q.Options[q.CorrectOption-1]
	for pos, text := range round.Options {
		if text == correctText {
			round.CorrectIndex = pos
			break
		}
	}
	return round
}
