package enrollment

import (
	"time"

	"github.com/darasa-lms/darasa/core"
)

// Enrollment registers a student into a public material; unique per
// (student, material) pair.
type Enrollment struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	MaterialID string    `json:"material_id"`
	CreatedAt  time.Time `json:"created_at"` // UTC
}

type NewEnrollment struct {
	MaterialID string `json:"material_id" validate:"required,uuid"`
}

func (ne *NewEnrollment) Validate() error {
	ne.MaterialID = core.CleanString(ne.MaterialID)
	return core.Validate.Struct(ne)
}
