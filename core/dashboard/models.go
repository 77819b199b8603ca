package dashboard

import (
	"github.com/darasa-lms/darasa/core/assignment"
	"github.com/darasa-lms/darasa/core/material"
)

// Derived submission status for the student dashboard.
const (
	StatusSubmitted = "submitted" // a submission exists, graded or not
	StatusOverdue   = "overdue"   // due date passed and no submission
	StatusPending   = "pending"
)

// InstructorView aggregates everything an instructor sees on their dashboard.
type InstructorView struct {
	Materials          []material.Material     `json:"materials"`
	Assignments        []assignment.Assignment `json:"assignments"`
	TotalEnrollments   int                     `json:"total_enrollments"`
	PendingSubmissions int                     `json:"pending_submissions"`
}

// EnrolledMaterial is the material projection shown on the student dashboard.
type EnrolledMaterial struct {
	MaterialID  string `json:"material_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// StudentAssignment annotates a visible assignment with the student's own
// submission state.
type StudentAssignment struct {
	assignment.Assignment
	MaterialTitle string                 `json:"material_title"`
	Status        string                 `json:"status"`
	Submission    *assignment.Submission `json:"submission,omitempty"`
}

// StudentView aggregates everything a student sees on their dashboard.
type StudentView struct {
	Enrollments []EnrolledMaterial  `json:"enrollments"`
	Assignments []StudentAssignment `json:"assignments"`
}
