package material

import (
	"time"

	"github.com/darasa-lms/darasa/core"
)

// Material is a course/learning unit owned by an instructor.
// Students may only see it once IsPublic is set.
type Material struct {
	ID           string    `json:"id"`
	InstructorID string    `json:"instructor_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	IsPublic     bool      `json:"is_public"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

// Video is a YouTube video attached to a Material.
type Video struct {
	ID         string    `json:"id"`
	MaterialID string    `json:"material_id"`
	Title      string    `json:"title"`
	YouTubeURL string    `json:"youtube_url"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"created_at"` // UTC
}

// Resource is an uploaded file attached to a Material.
type Resource struct {
	ID          string    `json:"id"`
	MaterialID  string    `json:"material_id"`
	Title       string    `json:"title"`
	FileURL     string    `json:"file_url"`
	FilePath    string    `json:"file_path"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// Detail is a Material along with its attached content.
type Detail struct {
	Material
	Videos    []Video    `json:"videos"`
	Resources []Resource `json:"resources"`
}

type NewMaterial struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

func (nm *NewMaterial) Validate() error {
	nm.Title = core.CleanString(nm.Title)
	nm.Description = core.CleanString(nm.Description)
	return core.Validate.Struct(nm)
}

// UpdateMaterial defines what may be modified on an existing Material.
// Nil/empty fields are left untouched.
type UpdateMaterial struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"is_public"`
}

func (um *UpdateMaterial) Validate(orig Material) error {
	if title := core.CleanString(um.Title); title != "" {
		um.Title = title
	} else {
		um.Title = orig.Title
	}
	if desc := core.CleanString(um.Description); desc != "" {
		um.Description = desc
	} else {
		um.Description = orig.Description
	}
	return core.Validate.Struct(um)
}

type NewVideo struct {
	Title      string `json:"title" validate:"required"`
	YouTubeURL string `json:"youtube_url" validate:"required,youtubeurl"`
	Position   int    `json:"position" validate:"min=0"`
}

func (nv *NewVideo) Validate() error {
	nv.Title = core.CleanString(nv.Title)
	nv.YouTubeURL = core.CleanString(nv.YouTubeURL)
	return core.Validate.Struct(nv)
}

type NewResource struct {
	Title       string `json:"title" validate:"required"`
	FileURL     string `json:"file_url" validate:"required,url"`
	FilePath    string `json:"file_path" validate:"required"`
	ContentType string `json:"content_type"`
}

func (nr *NewResource) Validate() error {
	nr.Title = core.CleanString(nr.Title)
	return core.Validate.Struct(nr)
}
