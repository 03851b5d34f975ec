package model

import (
	"time"

	"gorm.io/gorm"
)

type ResourceCategory string

const (
	ResourceBook          ResourceCategory = "book"
	ResourceCourse        ResourceCategory = "course"
	ResourceDocumentation ResourceCategory = "documentation"
	ResourceTutorial      ResourceCategory = "tutorial"
	ResourcePractice      ResourceCategory = "practice"
	ResourceOther         ResourceCategory = "other"
)

// Resource 共享学习资源，以 URL 作为唯一键；没有 URL 的资源按标题识别，url 为 NULL
// swagger:model Resource
type Resource struct {
	ID        string           `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title     string           `gorm:"size:255;not null" json:"title"`
	URL       *string          `gorm:"size:512;uniqueIndex" json:"url,omitempty"`
	Category  ResourceCategory `gorm:"size:20;default:'other'" json:"category"`
	CreatedAt time.Time        `json:"createdAt"`
}

func (Resource) TableName() string {
	return "resources"
}

func (r *Resource) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = GenerateUUID()
	}
	return nil
}
