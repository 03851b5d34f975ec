package service

import (
	"context"
	"errors"
	"learnflow_backend/internal/config"
	"learnflow_backend/internal/model"
	"learnflow_backend/internal/repository"
	"learnflow_backend/internal/util"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"fullName"`
	Username string `json:"username" binding:"omitempty,min=3,max=50"`
}

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

// Register 创建用户及同 ID 的资料记录
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, *model.Profile, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	_, err := s.UserRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := &model.User{Email: email, Password: string(hashedPassword)}
	profile := &model.Profile{
		FullName:      strings.TrimSpace(in.FullName),
		MemberSince:   time.Now(),
		LearningLevel: "Beginner",
	}
	if username := strings.TrimSpace(in.Username); username != "" {
		profile.Username = &username
	}

	if err := s.UserRepo.CreateWithProfile(ctx, user, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if profile.Username != nil {
				return nil, nil, util.ErrUsernameTaken
			}
			return nil, nil, util.ErrEmailRegistered
		}
		return nil, nil, err
	}
	return user, profile, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, util.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
