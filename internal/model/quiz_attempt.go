package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizAttempt 记录一次测验提交的得分
type QuizAttempt struct {
	ID          string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string         `gorm:"type:varchar(36);index;not null" json:"userId"`
	QuizTitle   string         `gorm:"size:255" json:"quizTitle"`
	Score       int            `json:"score"`
	TotalPoints int            `json:"totalPoints"`
	Percentage  float64        `json:"percentage"`
	Answers     datatypes.JSON `json:"answers"`
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = GenerateUUID()
	}
	return nil
}
