//go:build integration
// +build integration

package repository

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/trivia-service/internal/question"
)

const tempSchema = `
CREATE TEMP TABLE categories (
	id   BIGSERIAL PRIMARY KEY,
	type TEXT NOT NULL
) ON COMMIT DROP;
CREATE TEMP TABLE questions (
	id          BIGSERIAL PRIMARY KEY,
	question    TEXT NOT NULL,
	answer      TEXT NOT NULL,
	difficulty  INTEGER NOT NULL,
	category_id BIGINT NOT NULL REFERENCES categories (id)
) ON COMMIT DROP;
INSERT INTO categories (type) VALUES ('Science'), ('Art');
`

// withTx runs fn against temp tables inside a transaction that is always rolled back.
func withTx(t *testing.T, fn func(ctx context.Context, tx pgx.Tx)) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, tempSchema)
	require.NoError(t, err)
	fn(ctx, tx)
}

func TestQuestionRepository_RoundTrip(t *testing.T) {
	withTx(t, func(ctx context.Context, tx pgx.Tx) {
		repo := NewQuestionRepository(tx)

		first, err := repo.InsertQuestion(ctx, question.NewQuestion{Question: "What is H2O?", Answer: "Water", Difficulty: 1, Category: 1})
		require.NoError(t, err)
		second, err := repo.InsertQuestion(ctx, question.NewQuestion{Question: "Who painted Guernica?", Answer: "Picasso", Difficulty: 2, Category: 2})
		require.NoError(t, err)
		assert.Less(t, first.ID, second.ID)

		all, err := repo.ListQuestions(ctx)
		require.NoError(t, err)
		assert.Equal(t, []question.Question{first, second}, all)

		art, err := repo.QuestionsByCategory(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, []question.Question{second}, art)

		got, err := repo.GetQuestion(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first, got)

		require.NoError(t, repo.DeleteQuestion(ctx, first.ID))
		assert.ErrorIs(t, repo.DeleteQuestion(ctx, first.ID), question.ErrNoRecord)
		_, err = repo.GetQuestion(ctx, first.ID)
		assert.ErrorIs(t, err, question.ErrNoRecord)
	})
}

func TestQuestionRepository_Categories(t *testing.T) {
	withTx(t, func(ctx context.Context, tx pgx.Tx) {
		repo := NewQuestionRepository(tx)

		categories, err := repo.ListCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []question.Category{{ID: 1, Type: "Science"}, {ID: 2, Type: "Art"}}, categories)

		c, err := repo.GetCategory(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "Art", c.Type)

		_, err = repo.GetCategory(ctx, 999)
		assert.ErrorIs(t, err, question.ErrNoRecord)
	})
}
