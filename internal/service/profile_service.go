package service

import (
	"context"
	"errors"
	"fmt"
	"learnflow_backend/internal/model"
	"learnflow_backend/internal/repository"
	"learnflow_backend/internal/util"
	"mime/multipart"
	"strings"

	"gorm.io/gorm"
)

// ProfileUpdateInput 只更新请求中出现的字段
type ProfileUpdateInput struct {
	FullName      *string `json:"fullName"`
	Username      *string `json:"username" binding:"omitempty,min=3,max=50"`
	AvatarURL     *string `json:"avatarUrl"`
	LearningLevel *string `json:"learningLevel" binding:"omitempty,oneof=Beginner Intermediate Advanced"`
}

type ProfileService struct {
	ProfileRepo *repository.ProfileRepository
	Storage     *StorageService
}

func NewProfileService(profileRepo *repository.ProfileRepository, storage *StorageService) *ProfileService {
	return &ProfileService{
		ProfileRepo: profileRepo,
		Storage:     storage,
	}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.ProfileRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) Update(ctx context.Context, userID string, in ProfileUpdateInput) (*model.Profile, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*in.FullName)
	}
	if in.Username != nil {
		if username := strings.TrimSpace(*in.Username); username != "" {
			updates["username"] = username
		} else {
			updates["username"] = nil
		}
	}
	if in.AvatarURL != nil {
		updates["avatar_url"] = strings.TrimSpace(*in.AvatarURL)
	}
	if in.LearningLevel != nil {
		updates["learning_level"] = *in.LearningLevel
	}

	if len(updates) > 0 {
		if err := s.ProfileRepo.Update(ctx, userID, updates); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, util.ErrUsernameTaken
			}
			return nil, err
		}
	}
	return s.Get(ctx, userID)
}

// UploadAvatar 校验图片类型后上传并写回 avatar_url
func (s *ProfileService) UploadAvatar(ctx context.Context, userID string, file *multipart.FileHeader) (*model.Profile, error) {
	if file.Size > util.MaxAvatarSize {
		return nil, fmt.Errorf("%w: avatar exceeds %d bytes", util.ErrUnsupportedFile, util.MaxAvatarSize)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrUnsupportedFile, err)
	}
	if _, err := src.Seek(0, 0); err != nil {
		return nil, err
	}

	url, err := s.Storage.Upload(ctx, ObjectKey("avatars", userID, file.Filename), src, file.Size, mimeType)
	if err != nil {
		return nil, err
	}

	avatar := url
	return s.Update(ctx, userID, ProfileUpdateInput{AvatarURL: &avatar})
}
