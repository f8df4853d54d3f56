package models

import "github.com/google/uuid"

type StartQuizRequest struct {
	DocumentID uuid.UUID `json:"document_id"`
	Mode       string    `json:"mode"` // "all" | "chapter" | "page"
	Chapter    string    `json:"chapter,omitempty"`
	Page       int       `json:"page,omitempty"`
}

type SubmitAnswerRequest struct {
	Correct bool `json:"correct"`
}

type QuizSummary struct {
	Score          int `json:"score"`
	TotalQuestions int `json:"total_questions"`
	Percentage     int `json:"percentage"`
}
