package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"quiz-ai/internal/cache"
	"quiz-ai/internal/domain"
	"quiz-ai/internal/dto"
	"quiz-ai/internal/logger"
)

const (
	DefaultQuizListLimit      = 10
	DefaultGenerateDifficulty = 1
	DefaultBatchCount         = 3
)

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	ListQuizzes(ctx context.Context, req *dto.QuizListRequest) (*dto.QuizListResponse, error)
	GetQuiz(ctx context.Context, id string) (*dto.QuizResponse, error)
	GetRandomQuiz(ctx context.Context, topic string, difficulty int) (*dto.QuizResponse, error)
	ListTopics(ctx context.Context) (*dto.TopicListResponse, error)
	SubmitAnswer(ctx context.Context, userID, quizID string, req *dto.AnswerRequest) (*dto.AnswerResponse, error)
	GenerateQuiz(ctx context.Context, userID string, req *dto.GenerateQuizRequest) (*dto.GenerateQuizResponse, error)
	GenerateQuizBatch(ctx context.Context, userID string, req *dto.GenerateBatchRequest) (*dto.GenerateBatchResponse, error)
}

// quizService implements QuizService
type quizService struct {
	quizzes    domain.QuizRepository
	answers    domain.AnswerRepository
	generation GenerationService
	quota      *GenerationQuota
	cache      domain.Cache
}

// NewQuizService creates a new instance of quizService. cache and quota may
// be nil.
func NewQuizService(
	quizzes domain.QuizRepository,
	answers domain.AnswerRepository,
	generation GenerationService,
	quota *GenerationQuota,
	cache domain.Cache,
) QuizService {
	return &quizService{
		quizzes:    quizzes,
		answers:    answers,
		generation: generation,
		quota:      quota,
		cache:      cache,
	}
}

func (s *quizService) ListQuizzes(ctx context.Context, req *dto.QuizListRequest) (*dto.QuizListResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultQuizListLimit
	}
	filter := domain.QuizFilter{
		Topic:      strings.TrimSpace(req.Topic),
		Difficulty: req.Difficulty,
		Limit:      limit,
		Offset:     req.Offset,
	}

	quizzes, err := s.quizzes.ListQuizzes(ctx, filter)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list quizzes", err)
	}

	resp := &dto.QuizListResponse{
		Quizzes:    make([]dto.QuizResponse, 0, len(quizzes)),
		Pagination: dto.PageInfo{Limit: limit, Offset: req.Offset},
	}
	for _, q := range quizzes {
		resp.Quizzes = append(resp.Quizzes, toQuizResponse(q))
	}
	return resp, nil
}

func (s *quizService) GetQuiz(ctx context.Context, id string) (*dto.QuizResponse, error) {
	quiz, err := s.quizzes.GetQuizByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(id)
	}
	resp := toQuizResponse(quiz)
	return &resp, nil
}

func (s *quizService) GetRandomQuiz(ctx context.Context, topic string, difficulty int) (*dto.QuizResponse, error) {
	quiz, err := s.quizzes.GetRandomQuiz(ctx, domain.QuizFilter{Topic: strings.TrimSpace(topic), Difficulty: difficulty})
	if err != nil {
		return nil, domain.NewInternalError("Failed to get random quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("No quiz matches the given conditions")
	}
	resp := toQuizResponse(quiz)
	return &resp, nil
}

// ListTopics serves the topic list from the cache when possible.
func (s *quizService) ListTopics(ctx context.Context) (*dto.TopicListResponse, error) {
	if topics, ok := s.cachedTopics(ctx); ok {
		return toTopicListResponse(topics), nil
	}

	topics, err := s.quizzes.ListTopics(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list topics", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(topics); err == nil {
			if err := s.cache.Set(ctx, cache.TopicsKey(), string(data), cache.TopicsTTL); err != nil {
				logger.Get().Warn("Failed to cache topics", zap.Error(err))
			}
		}
	}
	return toTopicListResponse(topics), nil
}

func (s *quizService) cachedTopics(ctx context.Context) ([]domain.TopicSummary, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, cache.TopicsKey())
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Failed to read cached topics", zap.Error(err))
		}
		return nil, false
	}
	var topics []domain.TopicSummary
	if err := json.Unmarshal([]byte(data), &topics); err != nil {
		logger.Get().Warn("Discarding unreadable cached topics", zap.Error(err))
		return nil, false
	}
	return topics, true
}

func (s *quizService) invalidateTopics(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.TopicsKey()); err != nil {
		logger.Get().Warn("Failed to invalidate topics cache", zap.Error(err))
	}
}

func (s *quizService) SubmitAnswer(ctx context.Context, userID, quizID string, req *dto.AnswerRequest) (*dto.AnswerResponse, error) {
	selected := domain.AnswerLetter(strings.TrimSpace(req.SelectedAnswer))
	if !selected.Valid() {
		return nil, domain.NewInvalidAnswerError("selectedAnswer must be one of A, B, C, D")
	}

	quiz, err := s.quizzes.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}

	answer := &domain.Answer{
		UserID:         userID,
		QuizID:         quiz.ID,
		SelectedAnswer: selected,
		IsCorrect:      selected == quiz.CorrectAnswer,
		AnsweredAt:     time.Now().UTC(),
	}
	if err := s.answers.SaveAnswer(ctx, answer); err != nil {
		return nil, domain.NewInternalError("Failed to save answer", err)
	}

	return &dto.AnswerResponse{
		Correct:       answer.IsCorrect,
		CorrectAnswer: string(quiz.CorrectAnswer),
		Explanation:   quiz.ExplanationOrDefault(),
		Quiz: dto.QuizSummary{
			ID:       quiz.ID,
			Question: quiz.Question,
			Topic:    quiz.Topic,
		},
	}, nil
}

func (s *quizService) GenerateQuiz(ctx context.Context, userID string, req *dto.GenerateQuizRequest) (*dto.GenerateQuizResponse, error) {
	genReq := domain.GenerationRequest{
		Topic:      strings.TrimSpace(req.Topic),
		Difficulty: orDefault(req.Difficulty, DefaultGenerateDifficulty),
		Count:      1,
	}
	if err := genReq.Validate(); err != nil {
		return nil, domain.NewInvalidInputError(err.Error())
	}
	if err := s.quota.Consume(ctx, userID, 1); err != nil {
		return nil, err
	}

	logger.Get().Info("Quiz generation requested",
		zap.String("userID", userID),
		zap.String("topic", genReq.Topic),
		zap.Int("difficulty", genReq.Difficulty))

	item, err := s.generation.GenerateWithRetry(ctx, genReq)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			return nil, domain.NewInvalidInputError(err.Error())
		}
		return nil, domain.NewLLMServiceError(err).WithContext("details", err.Error())
	}

	quiz, err := s.saveGenerated(ctx, item)
	if err != nil {
		return nil, domain.NewInternalError("Failed to save generated quiz", err)
	}

	logger.Get().Info("Generated quiz saved", zap.String("quizID", quiz.ID))
	return &dto.GenerateQuizResponse{
		Message: "Quiz generated successfully",
		Quiz:    toQuizResponse(quiz),
	}, nil
}

func (s *quizService) GenerateQuizBatch(ctx context.Context, userID string, req *dto.GenerateBatchRequest) (*dto.GenerateBatchResponse, error) {
	genReq := domain.GenerationRequest{
		Topic:      strings.TrimSpace(req.Topic),
		Difficulty: orDefault(req.Difficulty, DefaultGenerateDifficulty),
		Count:      orDefault(req.Count, DefaultBatchCount),
	}
	if err := s.generation.ValidateBatch(genReq); err != nil {
		return nil, domain.NewInvalidInputError(err.Error())
	}
	if err := s.quota.Consume(ctx, userID, genReq.Count); err != nil {
		return nil, err
	}

	logger.Get().Info("Quiz batch generation requested",
		zap.String("userID", userID),
		zap.String("topic", genReq.Topic),
		zap.Int("count", genReq.Count))

	saved := make(map[int]*domain.Quiz, genReq.Count)
	var mu sync.Mutex
	sink := func(ctx context.Context, index int, item *domain.GeneratedQuizItem) error {
		quiz, err := s.saveGenerated(ctx, item)
		if err != nil {
			return err
		}
		mu.Lock()
		saved[index] = quiz
		mu.Unlock()
		return nil
	}

	result, err := s.generation.GenerateBatchInto(ctx, genReq, sink)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			return nil, domain.NewInvalidInputError(err.Error())
		}
		return nil, domain.NewInternalError("Failed to generate quizzes", err)
	}

	resp := &dto.GenerateBatchResponse{
		Quizzes: make([]dto.QuizResponse, 0, len(saved)),
		Errors:  make([]dto.BatchItemError, 0, len(result.Failures)),
	}
	for i := 1; i <= genReq.Count; i++ {
		if quiz, ok := saved[i]; ok {
			resp.Quizzes = append(resp.Quizzes, toQuizResponse(quiz))
		}
	}
	for _, f := range result.Failures {
		resp.Errors = append(resp.Errors, dto.BatchItemError{Index: f.Index, Error: f.Err.Error()})
	}
	resp.Summary = dto.BatchSummary{
		Requested: genReq.Count,
		Generated: len(resp.Quizzes),
		Failed:    len(resp.Errors),
	}
	resp.Message = fmt.Sprintf("Generated %d quizzes", resp.Summary.Generated)
	return resp, nil
}

func (s *quizService) saveGenerated(ctx context.Context, item *domain.GeneratedQuizItem) (*domain.Quiz, error) {
	quiz := domain.NewQuizFromGenerated(item)
	if err := quiz.Validate(); err != nil {
		return nil, err
	}
	if err := s.quizzes.SaveQuiz(ctx, quiz); err != nil {
		return nil, err
	}
	s.invalidateTopics(ctx)
	return quiz, nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func toQuizResponse(q *domain.Quiz) dto.QuizResponse {
	return dto.QuizResponse{
		ID:            q.ID,
		Topic:         q.Topic,
		Question:      q.Question,
		OptionA:       q.OptionA,
		OptionB:       q.OptionB,
		OptionC:       q.OptionC,
		OptionD:       q.OptionD,
		CorrectAnswer: string(q.CorrectAnswer),
		Explanation:   q.Explanation,
		Difficulty:    q.Difficulty,
		GeneratedAt:   q.GeneratedAt,
		CreatedAt:     q.CreatedAt,
	}
}

func toTopicListResponse(topics []domain.TopicSummary) *dto.TopicListResponse {
	resp := &dto.TopicListResponse{Topics: make([]dto.TopicResponse, 0, len(topics))}
	for _, t := range topics {
		resp.Topics = append(resp.Topics, dto.TopicResponse{Topic: t.Topic, Count: t.Count})
	}
	return resp
}
