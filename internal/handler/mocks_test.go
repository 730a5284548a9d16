package handler_test

import (
	"context"

	"quiz-ai/internal/domain"
	"quiz-ai/internal/dto"
)

// --- Manual Mocks ---

type MockQuizService struct {
	ListQuizzesFunc       func(ctx context.Context, req *dto.QuizListRequest) (*dto.QuizListResponse, error)
	GetQuizFunc           func(ctx context.Context, id string) (*dto.QuizResponse, error)
	GetRandomQuizFunc     func(ctx context.Context, topic string, difficulty int) (*dto.QuizResponse, error)
	ListTopicsFunc        func(ctx context.Context) (*dto.TopicListResponse, error)
	SubmitAnswerFunc      func(ctx context.Context, userID, quizID string, req *dto.AnswerRequest) (*dto.AnswerResponse, error)
	GenerateQuizFunc      func(ctx context.Context, userID string, req *dto.GenerateQuizRequest) (*dto.GenerateQuizResponse, error)
	GenerateQuizBatchFunc func(ctx context.Context, userID string, req *dto.GenerateBatchRequest) (*dto.GenerateBatchResponse, error)
}

func (m *MockQuizService) ListQuizzes(ctx context.Context, req *dto.QuizListRequest) (*dto.QuizListResponse, error) {
	if m.ListQuizzesFunc != nil {
		return m.ListQuizzesFunc(ctx, req)
	}
	panic("MockQuizService.ListQuizzesFunc not implemented")
}
func (m *MockQuizService) GetQuiz(ctx context.Context, id string) (*dto.QuizResponse, error) {
	if m.GetQuizFunc != nil {
		return m.GetQuizFunc(ctx, id)
	}
	panic("MockQuizService.GetQuizFunc not implemented")
}
func (m *MockQuizService) GetRandomQuiz(ctx context.Context, topic string, difficulty int) (*dto.QuizResponse, error) {
	if m.GetRandomQuizFunc != nil {
		return m.GetRandomQuizFunc(ctx, topic, difficulty)
	}
	panic("MockQuizService.GetRandomQuizFunc not implemented")
}
func (m *MockQuizService) ListTopics(ctx context.Context) (*dto.TopicListResponse, error) {
	if m.ListTopicsFunc != nil {
		return m.ListTopicsFunc(ctx)
	}
	panic("MockQuizService.ListTopicsFunc not implemented")
}
func (m *MockQuizService) SubmitAnswer(ctx context.Context, userID, quizID string, req *dto.AnswerRequest) (*dto.AnswerResponse, error) {
	if m.SubmitAnswerFunc != nil {
		return m.SubmitAnswerFunc(ctx, userID, quizID, req)
	}
	panic("MockQuizService.SubmitAnswerFunc not implemented")
}
func (m *MockQuizService) GenerateQuiz(ctx context.Context, userID string, req *dto.GenerateQuizRequest) (*dto.GenerateQuizResponse, error) {
	if m.GenerateQuizFunc != nil {
		return m.GenerateQuizFunc(ctx, userID, req)
	}
	panic("MockQuizService.GenerateQuizFunc not implemented")
}
func (m *MockQuizService) GenerateQuizBatch(ctx context.Context, userID string, req *dto.GenerateBatchRequest) (*dto.GenerateBatchResponse, error) {
	if m.GenerateQuizBatchFunc != nil {
		return m.GenerateQuizBatchFunc(ctx, userID, req)
	}
	panic("MockQuizService.GenerateQuizBatchFunc not implemented")
}

type MockAuthService struct {
	RegisterFunc    func(ctx context.Context, req *dto.RegisterRequest) (*domain.User, string, error)
	LoginFunc       func(ctx context.Context, req *dto.LoginRequest) (*domain.User, string, error)
	GetMeFunc       func(ctx context.Context, userID string) (*domain.User, error)
	ValidateJWTFunc func(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

func (m *MockAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, string, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	panic("MockAuthService.RegisterFunc not implemented")
}
func (m *MockAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*domain.User, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	panic("MockAuthService.LoginFunc not implemented")
}
func (m *MockAuthService) GetMe(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetMeFunc != nil {
		return m.GetMeFunc(ctx, userID)
	}
	panic("MockAuthService.GetMeFunc not implemented")
}
func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	if m.ValidateJWTFunc != nil {
		return m.ValidateJWTFunc(ctx, tokenString)
	}
	if tokenString == testToken {
		return &dto.AuthClaims{UserID: testUserID, Username: testUsername}, nil
	}
	return nil, domain.NewUnauthorizedError("invalid token")
}
func (m *MockAuthService) CreateJWT(ctx context.Context, user *domain.User) (string, error) {
	return testToken, nil
}

type MockUserService struct {
	GetStatsFunc      func(ctx context.Context, userID, username string) (*dto.UserStatsResponse, error)
	GetHistoryFunc    func(ctx context.Context, userID string, page dto.Pagination) (*dto.HistoryResponse, error)
	GetTopicStatsFunc func(ctx context.Context, userID string) (*dto.TopicStatsResponse, error)
	UpdateProfileFunc func(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

func (m *MockUserService) GetStats(ctx context.Context, userID, username string) (*dto.UserStatsResponse, error) {
	if m.GetStatsFunc != nil {
		return m.GetStatsFunc(ctx, userID, username)
	}
	panic("MockUserService.GetStatsFunc not implemented")
}
func (m *MockUserService) GetHistory(ctx context.Context, userID string, page dto.Pagination) (*dto.HistoryResponse, error) {
	if m.GetHistoryFunc != nil {
		return m.GetHistoryFunc(ctx, userID, page)
	}
	panic("MockUserService.GetHistoryFunc not implemented")
}
func (m *MockUserService) GetTopicStats(ctx context.Context, userID string) (*dto.TopicStatsResponse, error) {
	if m.GetTopicStatsFunc != nil {
		return m.GetTopicStatsFunc(ctx, userID)
	}
	panic("MockUserService.GetTopicStatsFunc not implemented")
}
func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, req)
	}
	panic("MockUserService.UpdateProfileFunc not implemented")
}

type MockConnectionChecker struct {
	Reply string
	Err   error
}

func (m *MockConnectionChecker) CheckConnection(ctx context.Context) (string, error) {
	return m.Reply, m.Err
}
