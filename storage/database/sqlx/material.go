package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core/material"
)

type materialRepository struct {
	db *sqlx.DB
}

var _ material.Repository = (*materialRepository)(nil) // interface compliance check

func NewMaterialRepository(db *sqlx.DB) *materialRepository {
	return &materialRepository{db: db}
}

type materialRow struct {
	ID           string    `db:"id"`
	InstructorID string    `db:"instructor_id"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	IsPublic     bool      `db:"is_public"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r materialRow) model() material.Material {
	return material.Material{
		ID:           r.ID,
		InstructorID: r.InstructorID,
		Title:        r.Title,
		Description:  r.Description,
		IsPublic:     r.IsPublic,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type videoRow struct {
	ID         string    `db:"id"`
	MaterialID string    `db:"material_id"`
	Title      string    `db:"title"`
	YouTubeURL string    `db:"youtube_url"`
	Position   int       `db:"position"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r videoRow) model() material.Video {
	return material.Video{
		ID:         r.ID,
		MaterialID: r.MaterialID,
		Title:      r.Title,
		YouTubeURL: r.YouTubeURL,
		Position:   r.Position,
		CreatedAt:  r.CreatedAt,
	}
}

type resourceRow struct {
	ID          string    `db:"id"`
	MaterialID  string    `db:"material_id"`
	Title       string    `db:"title"`
	FileURL     string    `db:"file_url"`
	FilePath    string    `db:"file_path"`
	ContentType string    `db:"content_type"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r resourceRow) model() material.Resource {
	return material.Resource{
		ID:          r.ID,
		MaterialID:  r.MaterialID,
		Title:       r.Title,
		FileURL:     r.FileURL,
		FilePath:    r.FilePath,
		ContentType: r.ContentType,
		CreatedAt:   r.CreatedAt,
	}
}

func materialModels(rows []materialRow) []material.Material {
	materials := make([]material.Material, 0, len(rows))
	for _, row := range rows {
		materials = append(materials, row.model())
	}
	return materials
}

// trapNoRowsErr maps psql "no rows" err to material.ErrNotFound
func (repo *materialRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return material.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *materialRepository) CreateMaterial(ctx context.Context, mat material.Material) (material.Material, error) {
	mat.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO materials (id, instructor_id, title, description, is_public, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		mat.ID, mat.InstructorID, mat.Title, mat.Description, mat.IsPublic, mat.CreatedAt, mat.UpdatedAt,
	)
	if err != nil {
		return material.Material{}, errors.Wrap(err, "creating material")
	}
	return mat, nil
}

func (repo *materialRepository) GetMaterialByID(ctx context.Context, id string) (material.Material, error) {
	var row materialRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM materials WHERE id = $1`, id); err != nil {
		return material.Material{}, repo.trapNoRowsErr(err, "getting material by ID")
	}
	return row.model(), nil
}

// GetMaterialOwner fetches the owner projection only.
func (repo *materialRepository) GetMaterialOwner(ctx context.Context, id string) (string, error) {
	var ownerID string
	if err := repo.db.GetContext(ctx, &ownerID, `SELECT instructor_id FROM materials WHERE id = $1`, id); err != nil {
		return "", repo.trapNoRowsErr(err, "getting material owner")
	}
	return ownerID, nil
}

func (repo *materialRepository) QueryMaterialsByInstructor(ctx context.Context, instructorID string) ([]material.Material, error) {
	rows := make([]materialRow, 0)
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM materials WHERE instructor_id = $1 ORDER BY created_at DESC`, instructorID)
	if err != nil {
		return nil, errors.Wrap(err, "querying materials by instructor")
	}
	return materialModels(rows), nil
}

func (repo *materialRepository) QueryMaterialsByIDs(ctx context.Context, ids []string) ([]material.Material, error) {
	if len(ids) == 0 {
		return make([]material.Material, 0), nil
	}
	query, args, err := sqlx.In(`SELECT * FROM materials WHERE id IN (?) ORDER BY created_at DESC`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "building materials query")
	}
	rows := make([]materialRow, 0)
	if err = repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying materials by IDs")
	}
	return materialModels(rows), nil
}

func (repo *materialRepository) QueryPublicMaterials(ctx context.Context) ([]material.Material, error) {
	rows := make([]materialRow, 0)
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM materials WHERE is_public = true ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying public materials")
	}
	return materialModels(rows), nil
}

func (repo *materialRepository) UpdateMaterial(ctx context.Context, mat material.Material) (material.Material, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE materials SET title = $2, description = $3, is_public = $4, updated_at = $5 WHERE id = $1`,
		mat.ID, mat.Title, mat.Description, mat.IsPublic, mat.UpdatedAt,
	)
	if err != nil {
		return material.Material{}, errors.Wrap(err, "updating material")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return material.Material{}, material.ErrNotFound
	}
	return mat, nil
}

// DeleteMaterial relies on ON DELETE CASCADE for videos, resources,
// assignments and submissions.
func (repo *materialRepository) DeleteMaterial(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM materials WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting material")
	}
	return nil
}

func (repo *materialRepository) CreateVideo(ctx context.Context, vid material.Video) (material.Video, error) {
	vid.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO videos (id, material_id, title, youtube_url, position, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		vid.ID, vid.MaterialID, vid.Title, vid.YouTubeURL, vid.Position, vid.CreatedAt,
	)
	if err != nil {
		return material.Video{}, errors.Wrap(err, "creating video")
	}
	return vid, nil
}

func (repo *materialRepository) GetVideoByID(ctx context.Context, id string) (material.Video, error) {
	var row videoRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM videos WHERE id = $1`, id); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return material.Video{}, material.ErrVideoNotFound
		}
		return material.Video{}, errors.Wrap(err, "getting video by ID")
	}
	return row.model(), nil
}

func (repo *materialRepository) QueryVideosByMaterial(ctx context.Context, materialID string) ([]material.Video, error) {
	rows := make([]videoRow, 0)
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM videos WHERE material_id = $1 ORDER BY position`, materialID)
	if err != nil {
		return nil, errors.Wrap(err, "querying videos")
	}
	videos := make([]material.Video, 0, len(rows))
	for _, row := range rows {
		videos = append(videos, row.model())
	}
	return videos, nil
}

func (repo *materialRepository) DeleteVideo(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting video")
	}
	return nil
}

func (repo *materialRepository) CreateResource(ctx context.Context, res material.Resource) (material.Resource, error) {
	res.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO course_resources (id, material_id, title, file_url, file_path, content_type, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		res.ID, res.MaterialID, res.Title, res.FileURL, res.FilePath, res.ContentType, res.CreatedAt,
	)
	if err != nil {
		return material.Resource{}, errors.Wrap(err, "creating resource")
	}
	return res, nil
}

func (repo *materialRepository) QueryResourcesByMaterial(ctx context.Context, materialID string) ([]material.Resource, error) {
	rows := make([]resourceRow, 0)
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM course_resources WHERE material_id = $1 ORDER BY created_at DESC`, materialID)
	if err != nil {
		return nil, errors.Wrap(err, "querying resources")
	}
	resources := make([]material.Resource, 0, len(rows))
	for _, row := range rows {
		resources = append(resources, row.model())
	}
	return resources, nil
}
