package question

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// ServiceOptions configures Service behavior.
type ServiceOptions struct {
	PageSize int
	// NewRand builds the random source for one quiz request.
	NewRand  func() RandomSource
	Notifier Notifier
}

// Service composes pagination, search, category indexing and quiz selection
// over a Store. It keeps no state between requests.
type Service struct {
	store    Store
	logger   zerolog.Logger
	pageSize int
	newRand  func() RandomSource
	notifier Notifier
}

func NewService(store Store, logger zerolog.Logger, opts ServiceOptions) *Service {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	newRand := opts.NewRand
	if newRand == nil {
		newRand = NewRandomSource
	}
	var notifier Notifier = nopNotifier{}
	if opts.Notifier != nil {
		notifier = opts.Notifier
	}
	return &Service{
		store:    store,
		logger:   logger.With().Str("component", "question_service").Logger(),
		pageSize: pageSize,
		newRand:  newRand,
		notifier: notifier,
	}
}

// Categories returns the id→label index of every category.
func (s *Service) Categories(ctx context.Context) (CategoryIndex, error) {
	const op = "categories"
	index, err := s.categoryIndex(ctx, op)
	if err != nil {
		return nil, err
	}
	if len(index) == 0 {
		return nil, NotFound(op, "no categories")
	}
	return index, nil
}

// ListQuestions returns one page of all questions with the category index.
func (s *Service) ListQuestions(ctx context.Context, page int) (QuestionPage, error) {
	const op = "list questions"
	all, err := s.store.ListQuestions(ctx)
	if err != nil {
		return QuestionPage{}, Unexpected(op, err)
	}
	index, err := s.categoryIndex(ctx, op)
	if err != nil {
		return QuestionPage{}, err
	}
	if len(all) == 0 || len(index) == 0 {
		return QuestionPage{}, NotFound(op, "questions=%d categories=%d", len(all), len(index))
	}

	current := Paginate(all, page, s.pageSize)
	if len(current) == 0 {
		return QuestionPage{}, NotFound(op, "page %d is out of range", page)
	}
	return QuestionPage{Questions: current, Total: len(all), Categories: index}, nil
}

// DeleteQuestion removes a question and returns the refreshed listing page.
func (s *Service) DeleteQuestion(ctx context.Context, id int64, page int) (DeleteResult, error) {
	const op = "delete question"
	q, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return DeleteResult{}, BusinessRule(op, "question %d does not exist", id)
		}
		return DeleteResult{}, Unexpected(op, err)
	}
	if err := s.store.DeleteQuestion(ctx, q.ID); err != nil {
		if errors.Is(err, ErrNoRecord) {
			return DeleteResult{}, BusinessRule(op, "question %d does not exist", id)
		}
		return DeleteResult{}, Unexpected(op, err)
	}
	s.publish(ctx, Event{Type: EventDeleted, QuestionID: q.ID, Category: q.Category})

	all, err := s.store.ListQuestions(ctx)
	if err != nil {
		return DeleteResult{}, Unexpected(op, err)
	}
	return DeleteResult{
		Deleted:   q.ID,
		Total:     len(all),
		Questions: Paginate(all, page, s.pageSize),
	}, nil
}

// SearchQuestions returns one page of questions whose text contains term.
func (s *Service) SearchQuestions(ctx context.Context, term string, page int) (SearchResult, error) {
	const op = "search questions"
	if strings.TrimSpace(term) == "" {
		return SearchResult{}, BusinessRule(op, "search term is empty")
	}
	all, err := s.store.ListQuestions(ctx)
	if err != nil {
		return SearchResult{}, Unexpected(op, err)
	}

	matches := Search(all, term)
	current := Paginate(matches, page, s.pageSize)
	if len(current) == 0 {
		return SearchResult{}, NotFound(op, "no matches for %q on page %d", term, page)
	}
	return SearchResult{Questions: current, Total: len(matches)}, nil
}

// CreateQuestion validates draft, inserts it and returns the refreshed listing page.
func (s *Service) CreateQuestion(ctx context.Context, draft QuestionDraft, page int) (CreateResult, error) {
	const op = "create question"
	nq, err := validateDraft(op, draft)
	if err != nil {
		return CreateResult{}, err
	}

	if _, err := s.store.GetCategory(ctx, nq.Category); err != nil {
		if errors.Is(err, ErrNoRecord) {
			return CreateResult{}, BusinessRule(op, "category %d does not exist", nq.Category)
		}
		return CreateResult{}, Unexpected(op, err)
	}

	created, err := s.store.InsertQuestion(ctx, nq)
	if err != nil {
		return CreateResult{}, Unexpected(op, err)
	}
	s.publish(ctx, Event{Type: EventCreated, QuestionID: created.ID, Category: created.Category})

	all, err := s.store.ListQuestions(ctx)
	if err != nil {
		return CreateResult{}, Unexpected(op, err)
	}
	return CreateResult{
		Created:   created.ID,
		Total:     len(all),
		Questions: Paginate(all, page, s.pageSize),
	}, nil
}

// CreateOrSearch runs a search when sub carries a non-blank term and creates a
// question otherwise.
func (s *Service) CreateOrSearch(ctx context.Context, sub Submission, page int) (SubmissionResult, error) {
	if strings.TrimSpace(sub.SearchTerm) != "" {
		res, err := s.SearchQuestions(ctx, sub.SearchTerm, page)
		if err != nil {
			return SubmissionResult{}, err
		}
		return SubmissionResult{Search: &res}, nil
	}
	res, err := s.CreateQuestion(ctx, sub.Draft, page)
	if err != nil {
		return SubmissionResult{}, err
	}
	return SubmissionResult{Created: &res}, nil
}

// QuestionsByCategory returns one page of the questions filed under categoryID.
func (s *Service) QuestionsByCategory(ctx context.Context, categoryID int64, page int) (CategoryQuestions, error) {
	const op = "questions by category"
	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return CategoryQuestions{}, BusinessRule(op, "category %d does not exist", categoryID)
		}
		return CategoryQuestions{}, Unexpected(op, err)
	}

	selection, err := s.store.QuestionsByCategory(ctx, category.ID)
	if err != nil {
		return CategoryQuestions{}, Unexpected(op, err)
	}
	return CategoryQuestions{
		Category:  category,
		Total:     len(selection),
		Questions: Paginate(selection, page, s.pageSize),
	}, nil
}

// NextQuizQuestion picks a random unseen question from the requested category,
// or from every category when the id is AllCategories. A nil question means the
// quiz is complete.
func (s *Service) NextQuizQuestion(ctx context.Context, req QuizRequest) (*Question, error) {
	const op = "next quiz question"
	if req.CategoryID == nil {
		return nil, BusinessRule(op, "quiz_category.id is required")
	}
	if req.PreviousQuestions == nil {
		return nil, BusinessRule(op, "previous_questions is required")
	}

	var (
		pool []Question
		err  error
	)
	if *req.CategoryID == AllCategories {
		pool, err = s.store.ListQuestions(ctx)
	} else {
		pool, err = s.store.QuestionsByCategory(ctx, *req.CategoryID)
	}
	if err != nil {
		return nil, Unexpected(op, err)
	}

	q, ok := NextQuestion(pool, req.PreviousQuestions, s.newRand())
	if !ok {
		s.logger.Debug().
			Int64("category", *req.CategoryID).
			Int("seen", len(req.PreviousQuestions)).
			Msg("quiz complete")
		return nil, nil
	}
	return &q, nil
}

func (s *Service) categoryIndex(ctx context.Context, op string) (CategoryIndex, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, Unexpected(op, err)
	}
	return BuildCategoryIndex(categories), nil
}

func (s *Service) publish(ctx context.Context, evt Event) {
	if err := s.notifier.Publish(ctx, evt); err != nil {
		s.logger.Warn().Err(err).Str("event", evt.Type).Int64("question_id", evt.QuestionID).Msg("question event publish failed")
	}
}

func validateDraft(op string, d QuestionDraft) (NewQuestion, error) {
	switch {
	case d.Question == nil || strings.TrimSpace(*d.Question) == "":
		return NewQuestion{}, BusinessRule(op, "question is required")
	case d.Answer == nil || strings.TrimSpace(*d.Answer) == "":
		return NewQuestion{}, BusinessRule(op, "answer is required")
	case d.Difficulty == nil:
		return NewQuestion{}, BusinessRule(op, "difficulty is required")
	case d.Category == nil:
		return NewQuestion{}, BusinessRule(op, "category is required")
	}
	if *d.Difficulty < MinDifficulty || *d.Difficulty > MaxDifficulty {
		return NewQuestion{}, BusinessRule(op, "difficulty %d outside %d..%d", *d.Difficulty, MinDifficulty, MaxDifficulty)
	}
	return NewQuestion{
		Question:   strings.TrimSpace(*d.Question),
		Answer:     strings.TrimSpace(*d.Answer),
		Difficulty: *d.Difficulty,
		Category:   *d.Category,
	}, nil
}
