package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"quiz-ai/internal/domain"
	"quiz-ai/internal/dto"
	"quiz-ai/internal/logger"
)

const DefaultHistoryLimit = 20

// UserService defines the interface for user-related operations.
type UserService interface {
	GetStats(ctx context.Context, userID, username string) (*dto.UserStatsResponse, error)
	GetHistory(ctx context.Context, userID string, page dto.Pagination) (*dto.HistoryResponse, error)
	GetTopicStats(ctx context.Context, userID string) (*dto.TopicStatsResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

type userServiceImpl struct {
	userRepo   domain.UserRepository
	answerRepo domain.AnswerRepository
	txManager  domain.TransactionManager
}

// NewUserService creates a new instance of UserService.
func NewUserService(
	userRepo domain.UserRepository,
	answerRepo domain.AnswerRepository,
	txManager domain.TransactionManager,
) UserService {
	return &userServiceImpl{
		userRepo:   userRepo,
		answerRepo: answerRepo,
		txManager:  txManager,
	}
}

// GetStats returns zero counts for a user who has not answered anything yet.
func (s *userServiceImpl) GetStats(ctx context.Context, userID, username string) (*dto.UserStatsResponse, error) {
	stats, err := s.answerRepo.GetUserStats(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get user stats", err)
	}

	out := dto.UserStats{UserID: userID, Username: username}
	if stats != nil {
		out.TotalAnswers = stats.TotalAnswers
		out.CorrectAnswers = stats.CorrectAnswers
		out.AccuracyPercentage = stats.AccuracyPercentage
		out.FirstQuizDate = stats.FirstQuizDate
		out.LastQuizDate = stats.LastQuizDate
	}
	return &dto.UserStatsResponse{Stats: out}, nil
}

func (s *userServiceImpl) GetHistory(ctx context.Context, userID string, page dto.Pagination) (*dto.HistoryResponse, error) {
	limit := page.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	offset := max(page.Offset, 0)

	entries, total, err := s.answerRepo.GetUserHistory(ctx, userID, limit, offset)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get answer history", err)
	}

	resp := &dto.HistoryResponse{
		History:    make([]dto.HistoryItem, 0, len(entries)),
		Pagination: dto.PageInfo{Limit: limit, Offset: offset, Total: &total},
	}
	for _, e := range entries {
		resp.History = append(resp.History, dto.HistoryItem{
			ID:             e.ID,
			QuizID:         e.QuizID,
			Topic:          e.Topic,
			Question:       e.Question,
			SelectedAnswer: string(e.SelectedAnswer),
			CorrectAnswer:  string(e.CorrectAnswer),
			IsCorrect:      e.IsCorrect,
			Difficulty:     e.Difficulty,
			AnsweredAt:     e.AnsweredAt,
		})
	}
	return resp, nil
}

func (s *userServiceImpl) GetTopicStats(ctx context.Context, userID string) (*dto.TopicStatsResponse, error) {
	stats, err := s.answerRepo.GetTopicStats(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get topic stats", err)
	}

	resp := &dto.TopicStatsResponse{TopicStats: make([]dto.TopicStat, 0, len(stats))}
	for _, t := range stats {
		resp.TopicStats = append(resp.TopicStats, dto.TopicStat{
			Topic:              t.Topic,
			TotalAttempts:      t.TotalAttempts,
			CorrectAttempts:    t.CorrectAttempts,
			AccuracyPercentage: t.AccuracyPercentage,
			FirstAttempt:       t.FirstAttempt,
			LastAttempt:        t.LastAttempt,
		})
	}
	return resp, nil
}

// UpdateProfile changes the user's email. The uniqueness check and the
// update run in one transaction.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, domain.NewInvalidInputError("email is required")
	}

	var updated *domain.User
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		taken, err := s.userRepo.IsEmailTaken(ctx, email, userID)
		if err != nil {
			return domain.NewInternalError("Failed to check email", err)
		}
		if taken {
			return domain.NewConflictError("Email is already in use")
		}
		if err := s.userRepo.UpdateEmail(ctx, userID, email); err != nil {
			return domain.NewInternalError("Failed to update profile", err)
		}
		updated, err = s.userRepo.GetUserByID(ctx, userID)
		if err != nil {
			return domain.NewInternalError("Failed to load updated user", err)
		}
		if updated == nil {
			return domain.NewNotFoundError("User not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("Profile updated", zap.String("userID", userID))
	return &dto.ProfileResponse{Message: "Profile updated", User: ToUserResponse(updated)}, nil
}

// ToUserResponse is the public view of u.
func ToUserResponse(u *domain.User) dto.UserResponse {
	resp := dto.UserResponse{ID: u.ID, Username: u.Username, Email: u.Email}
	if !u.CreatedAt.IsZero() {
		createdAt := u.CreatedAt
		resp.CreatedAt = &createdAt
	}
	if !u.UpdatedAt.IsZero() {
		updatedAt := u.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
