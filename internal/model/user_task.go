package model

import "time"

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

type TaskCategory string

const (
	CategoryDaily   TaskCategory = "daily"
	CategoryWeekly  TaskCategory = "weekly"
	CategoryMonthly TaskCategory = "monthly"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
)

// Next 返回状态切换顺序 todo -> in-progress -> completed -> todo
func (s TaskStatus) Next() TaskStatus {
	switch s {
	case TaskTodo:
		return TaskInProgress
	case TaskInProgress:
		return TaskCompleted
	default:
		return TaskTodo
	}
}

// UserTask 个人待办，区别于路线图中的 RoadmapTask
// swagger:model UserTask
type UserTask struct {
	UUIDBase
	UserID         string       `gorm:"type:varchar(36);index;not null" json:"userId"`
	Title          string       `gorm:"size:255;not null" json:"title"`
	Description    string       `gorm:"type:text" json:"description"`
	Priority       TaskPriority `gorm:"size:10;default:'medium'" json:"priority"`
	Category       TaskCategory `gorm:"size:10;default:'daily'" json:"category"`
	Status         TaskStatus   `gorm:"size:20;default:'todo'" json:"status"`
	DueDate        *time.Time   `json:"dueDate"`
	EstimatedHours float64      `json:"estimatedHours"`

	Tags []Tag `gorm:"many2many:user_task_tags" json:"tags"`
}

func (UserTask) TableName() string {
	return "user_tasks"
}

type UserTaskTag struct {
	UserTaskID string `gorm:"primaryKey;type:varchar(36)"`
	TagID      string `gorm:"primaryKey;type:varchar(36)"`
}

func (UserTaskTag) TableName() string {
	return "user_task_tags"
}
