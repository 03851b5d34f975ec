package model

import "time"

// swagger:model Profile
type Profile struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FullName      string    `gorm:"size:100" json:"fullName"`
	Username      *string   `gorm:"size:50;uniqueIndex" json:"username"`
	AvatarURL     string    `gorm:"size:512" json:"avatarUrl"`
	MemberSince   time.Time `json:"memberSince"`
	LearningLevel string    `gorm:"size:30;default:'Beginner'" json:"learningLevel"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Profile) TableName() string {
	return "profiles"
}
