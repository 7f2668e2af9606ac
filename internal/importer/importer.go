// Package importer loads Open Trivia DB questions into the question store.
package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-service/internal/question"
	"github.com/gokatarajesh/trivia-service/internal/question/external"
)

// Fetcher retrieves a batch of upstream questions.
type Fetcher interface {
	Fetch(ctx context.Context, amount int, difficulty, qType string) ([]external.OpenTDBQuestion, error)
}

var difficultyLevels = map[string]int{
	"easy":   1,
	"medium": 2,
	"hard":   3,
}

// Report summarizes one import run.
type Report struct {
	Fetched    int
	Imported   int
	Duplicates int
	Unmapped   int
}

// Importer copies fetched questions into a Store, skipping questions whose
// category has no local match and questions already present.
type Importer struct {
	fetcher Fetcher
	store   question.Store
	logger  zerolog.Logger
}

func New(fetcher Fetcher, store question.Store, logger zerolog.Logger) *Importer {
	return &Importer{
		fetcher: fetcher,
		store:   store,
		logger:  logger.With().Str("component", "importer").Logger(),
	}
}

// Run fetches amount questions at the given difficulty ("" for any) and inserts
// the ones that map onto local categories.
func (im *Importer) Run(ctx context.Context, amount int, difficulty string) (Report, error) {
	var report Report

	categories, err := im.store.ListCategories(ctx)
	if err != nil {
		return report, fmt.Errorf("list categories: %w", err)
	}
	if len(categories) == 0 {
		return report, fmt.Errorf("no local categories to import into")
	}
	existing, err := im.store.ListQuestions(ctx)
	if err != nil {
		return report, fmt.Errorf("list questions: %w", err)
	}
	seen := make(map[string]struct{}, len(existing))
	for _, q := range existing {
		seen[strings.ToLower(q.Question)] = struct{}{}
	}

	fetched, err := im.fetcher.Fetch(ctx, amount, difficulty, "")
	if err != nil {
		return report, fmt.Errorf("fetch opentdb: %w", err)
	}
	report.Fetched = len(fetched)

	for _, item := range fetched {
		categoryID, ok := MatchCategory(categories, item.Category)
		if !ok {
			report.Unmapped++
			im.logger.Debug().Str("category", item.Category).Msg("no local category")
			continue
		}
		key := strings.ToLower(strings.TrimSpace(item.Question))
		if _, dup := seen[key]; dup {
			report.Duplicates++
			continue
		}

		created, err := im.store.InsertQuestion(ctx, question.NewQuestion{
			Question:   strings.TrimSpace(item.Question),
			Answer:     strings.TrimSpace(item.CorrectAnswer),
			Difficulty: Difficulty(item.Difficulty),
			Category:   categoryID,
		})
		if err != nil {
			return report, fmt.Errorf("insert question: %w", err)
		}
		seen[key] = struct{}{}
		report.Imported++
		im.logger.Debug().Int64("question_id", created.ID).Int64("category", categoryID).Msg("question imported")
	}

	im.logger.Info().
		Int("fetched", report.Fetched).
		Int("imported", report.Imported).
		Int("duplicates", report.Duplicates).
		Int("unmapped", report.Unmapped).
		Msg("import finished")
	return report, nil
}

// MatchCategory finds the local category for an upstream name. It tries the full
// name, then the part before ':' ("Entertainment: Film"), then the part before
// '&' ("Science & Nature"). Matching ignores case.
func MatchCategory(categories []question.Category, name string) (int64, bool) {
	candidates := []string{name}
	if head, _, ok := strings.Cut(name, ":"); ok {
		candidates = append(candidates, head)
	}
	if head, _, ok := strings.Cut(name, "&"); ok {
		candidates = append(candidates, head)
	}
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		for _, c := range categories {
			if strings.EqualFold(c.Type, candidate) {
				return c.ID, true
			}
		}
	}
	return 0, false
}

// Difficulty maps an upstream level to the local scale. Unknown levels map to medium.
func Difficulty(level string) int {
	if d, ok := difficultyLevels[strings.ToLower(level)]; ok {
		return d
	}
	return difficultyLevels["medium"]
}
