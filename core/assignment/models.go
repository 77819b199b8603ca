package assignment

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/darasa-lms/darasa/core"
)

// Assignment is a gradable task belonging to a Material. InstructorID is
// denormalized from the parent material so the delete check is a direct
// field comparison.
type Assignment struct {
	ID           string    `json:"id"`
	MaterialID   string    `json:"material_id"`
	InstructorID string    `json:"instructor_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	DueDate      null.Time `json:"due_date"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

// Submission is a student's attempt at an Assignment; unique per
// (assignment, student), repeated submissions overwrite.
type Submission struct {
	ID           string      `json:"id"`
	AssignmentID string      `json:"assignment_id"`
	StudentID    string      `json:"student_id"`
	Content      string      `json:"content"`
	FileURL      null.String `json:"file_url"`
	SubmittedAt  time.Time   `json:"submitted_at"` // UTC
	Score        null.Int    `json:"score"`        // null until graded
	Feedback     null.String `json:"feedback"`
	GradedAt     null.Time   `json:"graded_at"`
}

func (s *Submission) IsGraded() bool { return s.Score.Valid }

type NewAssignment struct {
	MaterialID  string     `json:"material_id" validate:"required,uuid"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

func (na *NewAssignment) Validate() error {
	na.MaterialID = core.CleanString(na.MaterialID)
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	return core.Validate.Struct(na)
}

type NewSubmission struct {
	Content string `json:"content" validate:"required_without=FileURL"`
	FileURL string `json:"file_url" validate:"omitempty,url"`
}

func (ns *NewSubmission) Validate() error {
	ns.Content = core.CleanString(ns.Content)
	ns.FileURL = core.CleanString(ns.FileURL)
	return core.Validate.Struct(ns)
}

type GradeSubmission struct {
	Score    *int   `json:"score" validate:"required,min=0,max=100"`
	Feedback string `json:"feedback"`
}

func (gs *GradeSubmission) Validate() error {
	gs.Feedback = core.CleanString(gs.Feedback)
	return core.Validate.Struct(gs)
}
