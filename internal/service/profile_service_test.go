package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"learnflow_backend/internal/config"
	"learnflow_backend/internal/repository"
	"learnflow_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileUpdateAndAvatar(t *testing.T) {
	db := newServiceTestDB(t)
	ctx := context.Background()

	cfg := &config.Config{
		JWT:     config.JWTConfig{Secret: "profile-test-secret", ExpireTime: time.Hour},
		Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: t.TempDir()},
	}
	auth := NewAuthService(repository.NewUserRepository(db), cfg)
	ada, _, err := auth.Register(ctx, RegisterInput{Email: "ada@example.com", Password: "secret1", FullName: "Ada", Username: "ada"})
	require.NoError(t, err)
	_, _, err = auth.Register(ctx, RegisterInput{Email: "grace@example.com", Password: "secret1", Username: "grace"})
	require.NoError(t, err)

	svc := NewProfileService(repository.NewProfileRepository(db), NewStorageService(ctx, cfg))

	profile, err := svc.Get(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.FullName)
	assert.Equal(t, "Beginner", profile.LearningLevel)

	name, level := "  Ada Lovelace ", "Advanced"
	profile, err = svc.Update(ctx, ada.ID, ProfileUpdateInput{FullName: &name, LearningLevel: &level})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", profile.FullName)
	assert.Equal(t, "Advanced", profile.LearningLevel)
	require.NotNil(t, profile.Username)
	assert.Equal(t, "ada", *profile.Username)

	taken := "grace"
	_, err = svc.Update(ctx, ada.ID, ProfileUpdateInput{Username: &taken})
	assert.ErrorIs(t, err, util.ErrUsernameTaken)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, util.ErrProfileNotFound)

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	profile, err = svc.UploadAvatar(ctx, ada.ID, fileHeader(t, "me.png", png))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(profile.AvatarURL, "/uploads/avatars/"+ada.ID+"/"))

	_, err = svc.UploadAvatar(ctx, ada.ID, fileHeader(t, "notes.txt", []byte("plain text")))
	assert.ErrorIs(t, err, util.ErrUnsupportedFile)
}
