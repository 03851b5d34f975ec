package service

import (
	"fmt"
	"strings"
)

const (
	defaultFileName      = "Uploaded Document"
	defaultQuestionCount = 10
	defaultDifficulty    = "mixed"
	defaultPreferences   = "Not specified"
)

// 各生成流程固定的采样参数
const (
	notesTemperature   = 0.3
	notesMaxTokens     = 2000
	quizTemperature    = 0.4
	quizMaxTokens      = 3000
	roadmapTemperature = 0.7
	roadmapMaxTokens   = 3000
)

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func BuildNotesPrompt(fileName, documentText string) string {
	return fmt.Sprintf(`Analyze the following document and create comprehensive study notes:

Document: %s
Content: %s

Please create well-structured notes that include:
- A clear title and summary
- Key points and main concepts
- Organized sections with headings
- Important terms and definitions
- Relevant tags for categorization

Focus on making the notes clear, concise, and useful for studying.`, orDefault(fileName, defaultFileName), documentText)
}

func BuildQuizPrompt(fileName, documentText string, questionCount int, difficulty string) string {
	if questionCount <= 0 {
		questionCount = defaultQuestionCount
	}
	return fmt.Sprintf(`Create a comprehensive quiz based on the following document:

Document: %s
Content: %s

Quiz Requirements:
- Generate %d questions
- Difficulty level: %s
- Mix of question types: multiple choice, short answer, and true/false
- Include clear explanations for each answer
- Focus on key concepts and important information
- Make questions challenging but fair

Ensure questions test understanding, not just memorization.`,
		orDefault(fileName, defaultFileName), documentText, questionCount, orDefault(difficulty, defaultDifficulty))
}

func BuildRoadmapPrompt(goal, timeframe, currentLevel, preferences string) string {
	return fmt.Sprintf(`Create a comprehensive learning roadmap for: "%s"

Student Details:
- Timeframe: %s
- Current Level: %s
- Learning Preferences: %s

Requirements:
- Break down into 4-8 major milestones
- Each milestone should have 3-6 specific tasks
- Include a mix of theory, practice, and projects
- Provide realistic time estimates
- Include relevant resources and prerequisites
- Make it actionable and measurable

Focus on practical, hands-on learning with clear progression from basics to advanced concepts.`,
		goal, timeframe, currentLevel, orDefault(preferences, defaultPreferences))
}
