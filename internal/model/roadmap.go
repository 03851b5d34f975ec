package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RoadmapDifficulty string

const (
	DifficultyBeginner     RoadmapDifficulty = "Beginner"
	DifficultyIntermediate RoadmapDifficulty = "Intermediate"
	DifficultyAdvanced     RoadmapDifficulty = "Advanced"
)

type RoadmapStatus string

const (
	RoadmapActive    RoadmapStatus = "active"
	RoadmapCompleted RoadmapStatus = "completed"
	RoadmapArchived  RoadmapStatus = "archived"
)

type RoadmapTaskType string

const (
	RoadmapTaskReading  RoadmapTaskType = "reading"
	RoadmapTaskPractice RoadmapTaskType = "practice"
	RoadmapTaskProject  RoadmapTaskType = "project"
	RoadmapTaskQuiz     RoadmapTaskType = "quiz"
	RoadmapTaskVideo    RoadmapTaskType = "video"
)

// Roadmap 每次生成请求创建一条，后续生成不会覆盖
// swagger:model Roadmap
type Roadmap struct {
	UUIDBase
	UserID            string            `gorm:"type:varchar(36);index;not null" json:"userId"`
	Title             string            `gorm:"size:255;not null" json:"title"`
	Description       string            `gorm:"type:text" json:"description"`
	EstimatedDuration string            `gorm:"size:100" json:"estimatedDuration"`
	Difficulty        RoadmapDifficulty `gorm:"size:20" json:"difficulty"`
	Status            RoadmapStatus     `gorm:"size:20;default:'active'" json:"status"`
	Progress          float64           `gorm:"default:0" json:"progress"`
	GeneratedPayload  datatypes.JSON    `json:"-"`

	Milestones []Milestone `gorm:"foreignKey:RoadmapID" json:"milestones,omitempty"`
	Tags       []Tag       `gorm:"many2many:roadmap_tags" json:"tags,omitempty"`
	Resources  []Resource  `gorm:"many2many:roadmap_resources" json:"resources,omitempty"`
}

func (Roadmap) TableName() string {
	return "roadmaps"
}

// Milestone 通过 Position 保持生成顺序
type Milestone struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	RoadmapID      string    `gorm:"type:varchar(36);index;not null" json:"roadmapId"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description"`
	EstimatedWeeks float64   `json:"estimatedWeeks"`
	Position       int       `gorm:"default:0" json:"position"`
	CreatedAt      time.Time `json:"createdAt"`

	Tasks         []RoadmapTask           `gorm:"foreignKey:MilestoneID" json:"tasks,omitempty"`
	Prerequisites []MilestonePrerequisite `gorm:"foreignKey:MilestoneID" json:"prerequisites,omitempty"`
}

func (Milestone) TableName() string {
	return "milestones"
}

func (m *Milestone) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = GenerateUUID()
	}
	return nil
}

type RoadmapTask struct {
	ID             string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	MilestoneID    string          `gorm:"type:varchar(36);index;not null" json:"milestoneId"`
	Title          string          `gorm:"size:255;not null" json:"title"`
	Description    string          `gorm:"type:text" json:"description"`
	Type           RoadmapTaskType `gorm:"size:20" json:"type"`
	EstimatedHours float64         `json:"estimatedHours"`
	Position       int             `gorm:"default:0" json:"position"`
	Completed      bool            `gorm:"default:false" json:"completed"`
	CreatedAt      time.Time       `json:"createdAt"`

	Resources []Resource `gorm:"many2many:roadmap_task_resources" json:"resources,omitempty"`
}

func (RoadmapTask) TableName() string {
	return "roadmap_tasks"
}

func (t *RoadmapTask) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = GenerateUUID()
	}
	return nil
}

// MilestonePrerequisite 平铺的描述字符串，不去重
type MilestonePrerequisite struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	MilestoneID string `gorm:"type:varchar(36);index;not null" json:"milestoneId"`
	Description string `gorm:"type:text;not null" json:"description"`
}

func (MilestonePrerequisite) TableName() string {
	return "milestone_prerequisites"
}

type RoadmapTag struct {
	RoadmapID string `gorm:"primaryKey;type:varchar(36)"`
	TagID     string `gorm:"primaryKey;type:varchar(36)"`
}

func (RoadmapTag) TableName() string {
	return "roadmap_tags"
}

type RoadmapResource struct {
	RoadmapID  string `gorm:"primaryKey;type:varchar(36)"`
	ResourceID string `gorm:"primaryKey;type:varchar(36)"`
}

func (RoadmapResource) TableName() string {
	return "roadmap_resources"
}

type RoadmapTaskResource struct {
	RoadmapTaskID string `gorm:"primaryKey;type:varchar(36)"`
	ResourceID    string `gorm:"primaryKey;type:varchar(36)"`
}

func (RoadmapTaskResource) TableName() string {
	return "roadmap_task_resources"
}
