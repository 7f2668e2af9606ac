package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gokatarajesh/trivia-service/internal/db/postgres"
	"github.com/gokatarajesh/trivia-service/internal/question"
)

const questionColumns = `id, question, answer, difficulty, category_id`

// QuestionRepository is the Postgres-backed question.Store.
type QuestionRepository struct {
	db postgres.DBTX
}

var _ question.Store = (*QuestionRepository)(nil)

func NewQuestionRepository(db postgres.DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// ListQuestions returns every question ordered by id.
func (r *QuestionRepository) ListQuestions(ctx context.Context) ([]question.Question, error) {
	rows, err := r.db.Query(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return collectQuestions(rows)
}

// QuestionsByCategory returns the questions filed under categoryID ordered by id.
func (r *QuestionRepository) QuestionsByCategory(ctx context.Context, categoryID int64) ([]question.Question, error) {
	rows, err := r.db.Query(ctx, `SELECT `+questionColumns+` FROM questions WHERE category_id = $1 ORDER BY id`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("questions by category: %w", err)
	}
	return collectQuestions(rows)
}

func (r *QuestionRepository) GetQuestion(ctx context.Context, id int64) (question.Question, error) {
	var q question.Question
	err := r.db.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id).
		Scan(&q.ID, &q.Question, &q.Answer, &q.Difficulty, &q.Category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return question.Question{}, question.ErrNoRecord
		}
		return question.Question{}, fmt.Errorf("get question %d: %w", id, err)
	}
	return q, nil
}

func (r *QuestionRepository) InsertQuestion(ctx context.Context, nq question.NewQuestion) (question.Question, error) {
	query := `
		INSERT INTO questions (question, answer, difficulty, category_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + questionColumns

	var q question.Question
	err := r.db.QueryRow(ctx, query, nq.Question, nq.Answer, nq.Difficulty, nq.Category).
		Scan(&q.ID, &q.Question, &q.Answer, &q.Difficulty, &q.Category)
	if err != nil {
		return question.Question{}, fmt.Errorf("insert question: %w", err)
	}
	return q, nil
}

func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete question %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return question.ErrNoRecord
	}
	return nil
}

// ListCategories returns every category ordered by id.
func (r *QuestionRepository) ListCategories(ctx context.Context) ([]question.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, type FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (question.Category, error) {
		var c question.Category
		err := row.Scan(&c.ID, &c.Type)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan categories: %w", err)
	}
	return categories, nil
}

func (r *QuestionRepository) GetCategory(ctx context.Context, id int64) (question.Category, error) {
	var c question.Category
	err := r.db.QueryRow(ctx, `SELECT id, type FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Type)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return question.Category{}, question.ErrNoRecord
		}
		return question.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, nil
}

func collectQuestions(rows pgx.Rows) ([]question.Question, error) {
	qs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (question.Question, error) {
		var q question.Question
		err := row.Scan(&q.ID, &q.Question, &q.Answer, &q.Difficulty, &q.Category)
		return q, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan questions: %w", err)
	}
	return qs, nil
}
