package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskStatusNextCycles(t *testing.T) {
	assert.Equal(t, TaskInProgress, TaskTodo.Next())
	assert.Equal(t, TaskCompleted, TaskInProgress.Next())
	assert.Equal(t, TaskTodo, TaskCompleted.Next())
	assert.Equal(t, TaskTodo, TaskStatus("unknown").Next())
}

func TestQuizApplyDefaults(t *testing.T) {
	quiz := Quiz{Questions: []QuizQuestion{{ID: "q1", Points: 0}, {ID: "q2", Points: 3}, {ID: "q3", Points: -2}}}
	quiz.ApplyDefaults()

	assert.Equal(t, 1, quiz.Questions[0].Points)
	assert.Equal(t, 3, quiz.Questions[1].Points)
	assert.Equal(t, 1, quiz.Questions[2].Points)
}
