package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrGenerationFailed   = errors.New("structured generation failed")
	ErrRoadmapNotFound    = errors.New("roadmap not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrInvalidQuiz        = errors.New("invalid quiz payload")
	ErrUnsupportedFile    = errors.New("unsupported file type")
	ErrInvalidDueDate     = errors.New("invalid due date")
)
