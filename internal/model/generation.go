package model

// 以下结构对应模型结构化输出的三种 schema（notes / quiz / roadmap），
// validate 标签在解析模型输出后再次校验。

// swagger:model Notes
type Notes struct {
	Title     string        `json:"title" validate:"required"`
	Summary   string        `json:"summary" validate:"required"`
	KeyPoints []string      `json:"keyPoints" validate:"required"`
	Sections  []NoteSection `json:"sections" validate:"required,dive"`
	Concepts  []Concept     `json:"concepts,omitempty" validate:"omitempty,dive"`
	Tags      []string      `json:"tags" validate:"required"`
}

type NoteSection struct {
	Heading      string   `json:"heading" validate:"required"`
	Content      string   `json:"content" validate:"required"`
	BulletPoints []string `json:"bulletPoints,omitempty"`
}

type Concept struct {
	Term       string `json:"term" validate:"required"`
	Definition string `json:"definition" validate:"required"`
}

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionShortAnswer    QuestionType = "short-answer"
	QuestionTrueFalse      QuestionType = "true-false"
)

// swagger:model Quiz
type Quiz struct {
	Title         string         `json:"title" validate:"required"`
	Description   string         `json:"description"`
	Questions     []QuizQuestion `json:"questions" validate:"required,dive"`
	TotalPoints   int            `json:"totalPoints" validate:"min=0"`
	EstimatedTime int            `json:"estimatedTime" validate:"min=0"`
	Tags          []string       `json:"tags" validate:"required"`
}

type QuizQuestion struct {
	ID            string       `json:"id" validate:"required"`
	Type          QuestionType `json:"type" validate:"required,oneof=multiple-choice short-answer true-false"`
	Question      string       `json:"question" validate:"required"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correctAnswer" validate:"required"`
	Explanation   string       `json:"explanation"`
	Difficulty    string       `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Points        int          `json:"points" validate:"min=0"`
}

// ApplyDefaults 未给分值的题目按 1 分计
func (q *Quiz) ApplyDefaults() {
	for i := range q.Questions {
		if q.Questions[i].Points <= 0 {
			q.Questions[i].Points = 1
		}
	}
}

// GeneratedRoadmap 是模型返回的路线图对象，原样返回给调用方
// swagger:model GeneratedRoadmap
type GeneratedRoadmap struct {
	Title             string               `json:"title" validate:"required"`
	Description       string               `json:"description"`
	EstimatedDuration string               `json:"estimatedDuration"`
	Difficulty        RoadmapDifficulty    `json:"difficulty" validate:"required,oneof=Beginner Intermediate Advanced"`
	Milestones        []GeneratedMilestone `json:"milestones" validate:"required,dive"`
	Tags              []string             `json:"tags" validate:"required"`
	Resources         []GeneratedResource  `json:"resources" validate:"required,dive"`
}

type GeneratedMilestone struct {
	ID             string          `json:"id" validate:"required"`
	Title          string          `json:"title" validate:"required"`
	Description    string          `json:"description"`
	EstimatedWeeks float64         `json:"estimatedWeeks" validate:"min=0"`
	Tasks          []GeneratedTask `json:"tasks" validate:"required,dive"`
	Prerequisites  []string        `json:"prerequisites,omitempty"`
}

type GeneratedTask struct {
	ID             string          `json:"id" validate:"required"`
	Title          string          `json:"title" validate:"required"`
	Description    string          `json:"description"`
	Type           RoadmapTaskType `json:"type" validate:"required,oneof=reading practice project quiz video"`
	EstimatedHours float64         `json:"estimatedHours" validate:"min=0"`
	Resources      []string        `json:"resources,omitempty"`
}

type GeneratedResource struct {
	Title string           `json:"title" validate:"required"`
	URL   string           `json:"url,omitempty"`
	Type  ResourceCategory `json:"type" validate:"required,oneof=book course documentation tutorial practice"`
}
