package service

import (
	"context"
	"encoding/json"
	"fmt"
	"learnflow_backend/internal/model"
	"learnflow_backend/internal/repository"
	"learnflow_backend/internal/util"
	"learnflow_backend/pkg/logger"
	"math"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type QuizOptions struct {
	FileName      string
	DocumentText  string
	QuestionCount int
	Difficulty    string
}

// StudyService 笔记与测验的生成，以及测验作答记录
type StudyService struct {
	Generator   StructuredGenerator
	AttemptRepo *repository.QuizAttemptRepository
	Cache       *repository.DashboardCache
}

func NewStudyService(generator StructuredGenerator, attemptRepo *repository.QuizAttemptRepository, cache *repository.DashboardCache) *StudyService {
	return &StudyService{
		Generator:   generator,
		AttemptRepo: attemptRepo,
		Cache:       cache,
	}
}

func (s *StudyService) GenerateNotes(ctx context.Context, fileName, documentText string) (*model.Notes, error) {
	var notes model.Notes
	err := s.Generator.GenerateObject(ctx, GenerationRequest{
		Schema:      NotesSchema,
		Prompt:      BuildNotesPrompt(fileName, documentText),
		MaxTokens:   notesMaxTokens,
		Temperature: notesTemperature,
	}, &notes)
	if err != nil {
		return nil, err
	}
	return &notes, nil
}

func (s *StudyService) GenerateQuiz(ctx context.Context, opts QuizOptions) (*model.Quiz, error) {
	var quiz model.Quiz
	err := s.Generator.GenerateObject(ctx, GenerationRequest{
		Schema:      QuizSchema,
		Prompt:      BuildQuizPrompt(opts.FileName, opts.DocumentText, opts.QuestionCount, opts.Difficulty),
		MaxTokens:   quizMaxTokens,
		Temperature: quizTemperature,
	}, &quiz)
	if err != nil {
		return nil, err
	}

	quiz.ApplyDefaults()
	if quiz.TotalPoints <= 0 {
		quiz.TotalPoints = sumPoints(&quiz)
	}
	return &quiz, nil
}

func sumPoints(quiz *model.Quiz) int {
	total := 0
	for _, q := range quiz.Questions {
		total += q.Points
	}
	return total
}

// ScoreQuiz 答案与 correctAnswer 完全相同才得分
func ScoreQuiz(quiz *model.Quiz, answers map[string]string) (score, total int) {
	for _, q := range quiz.Questions {
		points := q.Points
		if points <= 0 {
			points = 1
		}
		total += points
		if answer, ok := answers[q.ID]; ok && answer == q.CorrectAnswer {
			score += points
		}
	}
	return score, total
}

// SubmitAttempt 计分并保存一次作答
func (s *StudyService) SubmitAttempt(ctx context.Context, userID string, quiz *model.Quiz, answers map[string]string) (*model.QuizAttempt, error) {
	if quiz == nil || len(quiz.Questions) == 0 {
		return nil, util.ErrInvalidQuiz
	}

	score, total := ScoreQuiz(quiz, answers)
	percentage := 0.0
	if total > 0 {
		percentage = math.Round(float64(score)/float64(total)*10000) / 100
	}

	if answers == nil {
		answers = map[string]string{}
	}
	raw, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}

	attempt := &model.QuizAttempt{
		UserID:      userID,
		QuizTitle:   quiz.Title,
		Score:       score,
		TotalPoints: total,
		Percentage:  percentage,
		Answers:     datatypes.JSON(raw),
	}
	if err := s.AttemptRepo.Create(ctx, attempt); err != nil {
		return nil, err
	}

	if err := s.Cache.Invalidate(ctx, userID); err != nil {
		logger.Log.Warn("Failed to invalidate dashboard cache", zap.String("user_id", userID), zap.Error(err))
	}
	return attempt, nil
}

func (s *StudyService) ListAttempts(ctx context.Context, userID string) ([]model.QuizAttempt, error) {
	return s.AttemptRepo.FindByUserID(ctx, userID)
}
