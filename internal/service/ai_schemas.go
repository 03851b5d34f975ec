package service

import "sort"

// OutputSchema 是发给模型的严格 JSON schema
type OutputSchema struct {
	Name       string
	Definition map[string]interface{}
}

// 严格模式要求所有字段都出现在 required 中，可选字段用可空类型表示
func object(props map[string]interface{}) map[string]interface{} {
	required := make([]string, 0, len(props))
	for k := range props {
		required = append(required, k)
	}
	sort.Strings(required)
	return map[string]interface{}{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

func stringField(desc string) map[string]interface{} {
	s := map[string]interface{}{"type": "string"}
	if desc != "" {
		s["description"] = desc
	}
	return s
}

func numberField(desc string) map[string]interface{} {
	s := map[string]interface{}{"type": "number"}
	if desc != "" {
		s["description"] = desc
	}
	return s
}

func integerField(desc string) map[string]interface{} {
	s := map[string]interface{}{"type": "integer"}
	if desc != "" {
		s["description"] = desc
	}
	return s
}

func enumField(values ...string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "enum": values}
}

func arrayOf(items map[string]interface{}, desc string) map[string]interface{} {
	s := map[string]interface{}{"type": "array", "items": items}
	if desc != "" {
		s["description"] = desc
	}
	return s
}

func nullableArrayOf(items map[string]interface{}, desc string) map[string]interface{} {
	s := arrayOf(items, desc)
	s["type"] = []string{"array", "null"}
	return s
}

func nullableString(desc string) map[string]interface{} {
	s := stringField(desc)
	s["type"] = []string{"string", "null"}
	return s
}

var NotesSchema = OutputSchema{
	Name: "notes",
	Definition: object(map[string]interface{}{
		"title":     stringField("Title for the generated notes"),
		"summary":   stringField("Brief summary of the document content"),
		"keyPoints": arrayOf(stringField(""), "Main key points from the document"),
		"sections": arrayOf(object(map[string]interface{}{
			"heading":      stringField(""),
			"content":      stringField(""),
			"bulletPoints": nullableArrayOf(stringField(""), ""),
		}), ""),
		"concepts": nullableArrayOf(object(map[string]interface{}{
			"term":       stringField(""),
			"definition": stringField(""),
		}), ""),
		"tags": arrayOf(stringField(""), ""),
	}),
}

var QuizSchema = OutputSchema{
	Name: "quiz",
	Definition: object(map[string]interface{}{
		"title":       stringField("Title for the quiz"),
		"description": stringField("Brief description of what the quiz covers"),
		"questions": arrayOf(object(map[string]interface{}{
			"id":            stringField(""),
			"type":          enumField("multiple-choice", "short-answer", "true-false"),
			"question":      stringField(""),
			"options":       nullableArrayOf(stringField(""), "Options for multiple choice questions"),
			"correctAnswer": stringField(""),
			"explanation":   stringField("Explanation of why this is the correct answer"),
			"difficulty":    enumField("easy", "medium", "hard"),
			"points":        integerField("Points awarded for a correct answer, usually 1"),
		}), ""),
		"totalPoints":   integerField(""),
		"estimatedTime": integerField("Estimated time to complete in minutes"),
		"tags":          arrayOf(stringField(""), ""),
	}),
}

var RoadmapSchema = OutputSchema{
	Name: "roadmap",
	Definition: object(map[string]interface{}{
		"title":             stringField("The title of the learning roadmap"),
		"description":       stringField("A brief description of what the student will learn"),
		"estimatedDuration": stringField(`Estimated time to complete (e.g., "3 months", "6 weeks")`),
		"difficulty":        enumField("Beginner", "Intermediate", "Advanced"),
		"milestones": arrayOf(object(map[string]interface{}{
			"id":             stringField(""),
			"title":          stringField(""),
			"description":    stringField(""),
			"estimatedWeeks": numberField(""),
			"tasks": arrayOf(object(map[string]interface{}{
				"id":             stringField(""),
				"title":          stringField(""),
				"description":    stringField(""),
				"type":           enumField("reading", "practice", "project", "quiz", "video"),
				"estimatedHours": numberField(""),
				"resources":      nullableArrayOf(stringField(""), ""),
			}), ""),
			"prerequisites": nullableArrayOf(stringField(""), ""),
		}), ""),
		"tags": arrayOf(stringField(""), ""),
		"resources": arrayOf(object(map[string]interface{}{
			"title": stringField(""),
			"url":   nullableString(""),
			"type":  enumField("book", "course", "documentation", "tutorial", "practice"),
		}), ""),
	}),
}
