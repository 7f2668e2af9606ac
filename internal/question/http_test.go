package question_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/trivia-service/internal/question"
	"github.com/gokatarajesh/trivia-service/internal/question/questiontest"
)

func newMux(store question.Store) *http.ServeMux {
	svc := newService(store, question.ServiceOptions{})
	mux := http.NewServeMux()
	question.NewHTTPHandler(svc, zerolog.New(io.Discard)).Register(mux)
	return mux
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

func assertEnvelope(t *testing.T, rec *httptest.ResponseRecorder, body map[string]any, status int) {
	t.Helper()
	assert.Equal(t, status, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(status), body["error"])
	assert.NotEmpty(t, body["message"])
}

func TestHTTPGetCategories(t *testing.T) {
	mux := newMux(questiontest.NewStore([]question.Category{science, {ID: 2, Type: "Art"}}, nil))

	rec, body := doJSON(t, mux, http.MethodGet, "/categories", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"1": "Science", "2": "Art"}, body["categories"])
	assert.Equal(t, float64(2), body["total_categories"])

	rec, body = doJSON(t, newMux(questiontest.NewStore(nil, nil)), http.MethodGet, "/categories", "")
	assertEnvelope(t, rec, body, http.StatusNotFound)
}

func TestHTTPGetQuestionsPagination(t *testing.T) {
	mux := newMux(questiontest.NewStore([]question.Category{science}, questiontest.Questions(15, 1)))

	rec, body := doJSON(t, mux, http.MethodGet, "/questions?page=2", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(15), body["total_questions"])
	assert.Len(t, body["questions"], 5)

	rec, body = doJSON(t, mux, http.MethodGet, "/questions?page=abc", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["questions"], 10)

	rec, body = doJSON(t, mux, http.MethodGet, "/questions?page=3", "")
	assertEnvelope(t, rec, body, http.StatusNotFound)
}

func TestHTTPHugePageIsNotFound(t *testing.T) {
	mux := newMux(questiontest.NewStore([]question.Category{science}, questiontest.Questions(3, 1)))

	for _, target := range []string{
		"/questions?page=922337203685477582",
		"/questions?page=9223372036854775807",
	} {
		rec, body := doJSON(t, mux, http.MethodGet, target, "")
		assertEnvelope(t, rec, body, http.StatusNotFound)
	}

	rec, body := doJSON(t, mux, http.MethodPost, "/questions?page=922337203685477582", `{"searchTerm":"question"}`)
	assertEnvelope(t, rec, body, http.StatusNotFound)

	rec, body = doJSON(t, mux, http.MethodGet, "/categories/1/questions?page=922337203685477582", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["questions"])
}

func TestHTTPDeleteQuestion(t *testing.T) {
	mux := newMux(questiontest.NewStore([]question.Category{science}, questiontest.Questions(3, 1)))

	rec, body := doJSON(t, mux, http.MethodDelete, "/questions/2", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["question_deleted"])
	assert.Equal(t, float64(2), body["total_questions"])

	rec, body = doJSON(t, mux, http.MethodDelete, "/questions/2", "")
	assertEnvelope(t, rec, body, http.StatusUnprocessableEntity)

	rec, body = doJSON(t, mux, http.MethodDelete, "/questions/two", "")
	assertEnvelope(t, rec, body, http.StatusBadRequest)
}

func TestHTTPCreateQuestion(t *testing.T) {
	mux := newMux(questiontest.NewStore([]question.Category{science}, questiontest.Questions(3, 1)))

	rec, body := doJSON(t, mux, http.MethodPost, "/questions",
		`{"question":"What is the largest planet?","answer":"Jupiter","difficulty":"2","category":"1"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(4), body["created"])
	assert.Equal(t, float64(4), body["total_questions"])

	rec, body = doJSON(t, mux, http.MethodPost, "/questions", `{"question":"No answer","difficulty":1,"category":1}`)
	assertEnvelope(t, rec, body, http.StatusUnprocessableEntity)

	rec, body = doJSON(t, mux, http.MethodPost, "/questions", `{"question":`)
	assertEnvelope(t, rec, body, http.StatusBadRequest)

	rec, body = doJSON(t, mux, http.MethodPost, "/questions", `{"question":"q","answer":"a","difficulty":"hard","category":1}`)
	assertEnvelope(t, rec, body, http.StatusUnprocessableEntity)
}

func TestHTTPSearchQuestions(t *testing.T) {
	mux := newMux(questiontest.NewStore([]question.Category{science}, questiontest.Questions(12, 1)))

	rec, body := doJSON(t, mux, http.MethodPost, "/questions", `{"searchTerm":"QUESTION 1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(4), body["total questions in search"])
	assert.Len(t, body["questions"], 4)

	rec, body = doJSON(t, mux, http.MethodPost, "/questions", `{"searchTerm":"platypus"}`)
	assertEnvelope(t, rec, body, http.StatusNotFound)
}

func TestHTTPCategoryQuestions(t *testing.T) {
	mux := newMux(questiontest.NewStore([]question.Category{science}, questiontest.Questions(3, 1)))

	rec, body := doJSON(t, mux, http.MethodGet, "/categories/1/questions", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Science", body["current category"])
	assert.Equal(t, float64(3), body["total questions"])

	rec, body = doJSON(t, mux, http.MethodGet, "/categories/999/questions", "")
	assertEnvelope(t, rec, body, http.StatusUnprocessableEntity)
}

func TestHTTPQuizScenario(t *testing.T) {
	mux := newMux(questiontest.NewStore([]question.Category{science}, []question.Question{
		{ID: 5, Question: "a", Answer: "a", Difficulty: 1, Category: 1},
		{ID: 6, Question: "b", Answer: "b", Difficulty: 1, Category: 1},
	}))

	rec, body := doJSON(t, mux, http.MethodPost, "/quizzes", `{"quiz_category":{"id":1},"previous_questions":[5]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	q, ok := body["question"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(6), q["id"])

	rec, body = doJSON(t, mux, http.MethodPost, "/quizzes", `{"quiz_category":{"id":"1"},"previous_questions":[5,6]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "question")
	assert.Nil(t, body["question"])

	rec, body = doJSON(t, mux, http.MethodPost, "/quizzes", `{"previous_questions":[]}`)
	assertEnvelope(t, rec, body, http.StatusUnprocessableEntity)

	rec, body = doJSON(t, mux, http.MethodPost, "/quizzes", `{"quiz_category":{"type":"click","id":0}}`)
	assertEnvelope(t, rec, body, http.StatusUnprocessableEntity)
}

func TestHTTPQuizPayloadErrors(t *testing.T) {
	mux := newMux(questiontest.NewStore([]question.Category{science}, questiontest.Questions(3, 1)))

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"truncated json", `{"quiz_category":`, http.StatusBadRequest},
		{"empty body", "", http.StatusBadRequest},
		{"category is a string", `{"quiz_category":"abc","previous_questions":[]}`, http.StatusUnprocessableEntity},
		{"non-numeric previous id", `{"quiz_category":{"id":1},"previous_questions":["x"]}`, http.StatusUnprocessableEntity},
		{"previous_questions is an object", `{"quiz_category":{"id":1},"previous_questions":{}}`, http.StatusUnprocessableEntity},
		{"null previous id", `{"quiz_category":{"id":1},"previous_questions":[1,null]}`, http.StatusUnprocessableEntity},
		{"empty-string previous id", `{"quiz_category":{"id":1},"previous_questions":[""]}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := doJSON(t, mux, http.MethodPost, "/quizzes", tc.body)
			assertEnvelope(t, rec, body, tc.status)
		})
	}
}

func TestHTTPStoreFailureIsInternalError(t *testing.T) {
	store := questiontest.NewStore([]question.Category{science}, questiontest.Questions(3, 1))
	store.Err = errors.New("pool closed")

	rec, body := doJSON(t, newMux(store), http.MethodGet, "/questions", "")
	assertEnvelope(t, rec, body, http.StatusInternalServerError)
}

func TestFlexIntDecoding(t *testing.T) {
	var v struct {
		A question.FlexInt `json:"a"`
		B question.FlexInt `json:"b"`
		C question.FlexInt `json:"c"`
		D question.FlexInt `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":3,"b":"4","c":null,"d":""}`), &v))
	assert.Equal(t, question.FlexInt{Value: 3, Valid: true}, v.A)
	assert.Equal(t, question.FlexInt{Value: 4, Valid: true}, v.B)
	assert.False(t, v.C.Valid)
	assert.False(t, v.D.Valid)
	assert.Nil(t, v.D.Ptr())

	assert.Error(t, json.Unmarshal([]byte(`{"a":"x"}`), &v))
}
