package question

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-service/internal/logging"
	httperrors "github.com/gokatarajesh/trivia-service/pkg/http/errors"
)

// HTTPHandler exposes the trivia REST endpoints.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandler constructs the question HTTP handler.
func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "question_http").Logger(),
	}
}

// Register mounts the routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /categories", h.GetCategories)
	mux.HandleFunc("GET /categories/{id}/questions", h.GetCategoryQuestions)
	mux.HandleFunc("GET /questions", h.GetQuestions)
	mux.HandleFunc("POST /questions", h.PostQuestions)
	mux.HandleFunc("DELETE /questions/{id}", h.DeleteQuestion)
	mux.HandleFunc("POST /quizzes", h.PostQuiz)
}

var errNotInteger = errors.New("not an integer")

// FlexInt decodes a JSON number or numeric string. Absent, null and "" leave Valid false.
type FlexInt struct {
	Value int64
	Valid bool
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		data = []byte(s)
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s", errNotInteger, data)
	}
	f.Value, f.Valid = v, true
	return nil
}

// Ptr returns nil when the value was not supplied.
func (f FlexInt) Ptr() *int64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

type submissionRequest struct {
	SearchTerm *string `json:"searchTerm"`
	Question   *string `json:"question"`
	Answer     *string `json:"answer"`
	Difficulty FlexInt `json:"difficulty"`
	Category   FlexInt `json:"category"`
}

type quizCategory struct {
	ID   FlexInt `json:"id"`
	Type string  `json:"type"`
}

type quizRequest struct {
	QuizCategory      *quizCategory `json:"quiz_category"`
	PreviousQuestions []FlexInt     `json:"previous_questions"`
}

func (r submissionRequest) toSubmission() Submission {
	sub := Submission{Draft: QuestionDraft{
		Question: r.Question,
		Answer:   r.Answer,
		Category: r.Category.Ptr(),
	}}
	if r.SearchTerm != nil {
		sub.SearchTerm = *r.SearchTerm
	}
	if d := r.Difficulty.Ptr(); d != nil {
		v := int(*d)
		sub.Draft.Difficulty = &v
	}
	return sub
}

// toQuizRequest rejects null or empty-string entries in previous_questions.
func (r quizRequest) toQuizRequest(op string) (QuizRequest, error) {
	var req QuizRequest
	if r.QuizCategory != nil {
		req.CategoryID = r.QuizCategory.ID.Ptr()
	}
	if r.PreviousQuestions != nil {
		req.PreviousQuestions = make([]int64, 0, len(r.PreviousQuestions))
		for i, id := range r.PreviousQuestions {
			if !id.Valid {
				return QuizRequest{}, BusinessRule(op, "previous_questions[%d] is not a question id", i)
			}
			req.PreviousQuestions = append(req.PreviousQuestions, id.Value)
		}
	}
	return req, nil
}

// decodeError classifies a body decoding failure: unparsable JSON is malformed,
// well-formed JSON of the wrong shape breaks the request contract.
func decodeError(op string, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) || errors.Is(err, errNotInteger) {
		return BusinessRule(op, "unexpected payload shape: %v", err)
	}
	return Malformed(op, "invalid JSON payload: %v", err)
}

// GetCategories handles GET /categories
func (h *HTTPHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	index, err := h.svc.Categories(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"categories":       index,
		"total_categories": len(index),
	})
}

// GetQuestions handles GET /questions?page=N
func (h *HTTPHandler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListQuestions(r.Context(), pageParam(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"categories":      res.Categories,
		"total_questions": res.Total,
		"questions":       res.Questions,
	})
}

// DeleteQuestion handles DELETE /questions/{id}
func (h *HTTPHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.respondServiceError(w, r, Malformed("delete question", "invalid question id %q", r.PathValue("id")))
		return
	}
	res, err := h.svc.DeleteQuestion(r.Context(), id, pageParam(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"question_deleted": res.Deleted,
		"total_questions":  res.Total,
		"questions":        res.Questions,
	})
}

// PostQuestions handles POST /questions, which searches when searchTerm is set and creates otherwise.
func (h *HTTPHandler) PostQuestions(w http.ResponseWriter, r *http.Request) {
	var req submissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondServiceError(w, r, decodeError("submit question", err))
		return
	}
	res, err := h.svc.CreateOrSearch(r.Context(), req.toSubmission(), pageParam(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	if res.Search != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":                   true,
			"questions":                 res.Search.Questions,
			"total questions in search": res.Search.Total,
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":         true,
		"created":         res.Created.Created,
		"total_questions": res.Created.Total,
		"questions":       res.Created.Questions,
	})
}

// GetCategoryQuestions handles GET /categories/{id}/questions
func (h *HTTPHandler) GetCategoryQuestions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.respondServiceError(w, r, Malformed("questions by category", "invalid category id %q", r.PathValue("id")))
		return
	}
	res, err := h.svc.QuestionsByCategory(r.Context(), id, pageParam(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"current category": res.Category.Type,
		"total questions":  res.Total,
		"questions":        res.Questions,
	})
}

// PostQuiz handles POST /quizzes
func (h *HTTPHandler) PostQuiz(w http.ResponseWriter, r *http.Request) {
	const op = "next quiz question"
	var body quizRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.respondServiceError(w, r, decodeError(op, err))
		return
	}
	req, err := body.toQuizRequest(op)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	q, err := h.svc.NextQuizQuestion(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"question": q,
	})
}

// StatusFor maps a service error kind to its HTTP status.
func StatusFor(err error) int {
	switch KindOf(err) {
	case KindRequestMalformed:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindBusinessRule:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *HTTPHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	logger := logging.FromContext(r.Context())
	if status == http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("request_id", logging.RequestID(r.Context())).Msg("request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("request rejected")
	}
	switch status {
	case http.StatusBadRequest:
		httperrors.RespondBadRequest(w)
	case http.StatusNotFound:
		httperrors.RespondNotFound(w)
	case http.StatusUnprocessableEntity:
		httperrors.RespondUnprocessable(w)
	default:
		httperrors.RespondInternalError(w)
	}
}

func pageParam(r *http.Request) int {
	return ParsePage(r.URL.Query().Get("page"))
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
