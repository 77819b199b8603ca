package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core/enrollment"
)

// uniqueViolation is the psql error code raised by the
// (student_id, material_id) unique index.
const uniqueViolation = "23505"

type enrollmentRepository struct {
	db *sqlx.DB
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *sqlx.DB) *enrollmentRepository {
	return &enrollmentRepository{db: db}
}

type enrollmentRow struct {
	ID         string    `db:"id"`
	StudentID  string    `db:"student_id"`
	MaterialID string    `db:"material_id"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r enrollmentRow) model() enrollment.Enrollment {
	return enrollment.Enrollment{
		ID:         r.ID,
		StudentID:  r.StudentID,
		MaterialID: r.MaterialID,
		CreatedAt:  r.CreatedAt,
	}
}

// CreateEnrollment lets the unique index arbitrate duplicates so concurrent
// enrolls cannot both slip past the service's pre-check.
func (repo *enrollmentRepository) CreateEnrollment(ctx context.Context, enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	enr.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO enrollments (id, student_id, material_id, created_at) VALUES ($1, $2, $3, $4)`,
		enr.ID, enr.StudentID, enr.MaterialID, enr.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return enrollment.Enrollment{}, enrollment.ErrAlreadyEnrolled
		}
		return enrollment.Enrollment{}, errors.Wrap(err, "creating enrollment")
	}
	return enr, nil
}

func (repo *enrollmentRepository) IsEnrolled(ctx context.Context, studentID, materialID string) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM enrollments WHERE student_id = $1 AND material_id = $2)`,
		studentID, materialID)
	if err != nil {
		return false, errors.Wrap(err, "checking enrollment")
	}
	return exists, nil
}

func (repo *enrollmentRepository) QueryEnrollmentsByStudent(ctx context.Context, studentID string) ([]enrollment.Enrollment, error) {
	rows := make([]enrollmentRow, 0)
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM enrollments WHERE student_id = $1 ORDER BY created_at DESC`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying enrollments by student")
	}
	enrollments := make([]enrollment.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrollments = append(enrollments, row.model())
	}
	return enrollments, nil
}

func (repo *enrollmentRepository) CountEnrollmentsByMaterials(ctx context.Context, materialIDs []string) (int, error) {
	if len(materialIDs) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`SELECT COUNT(*) FROM enrollments WHERE material_id IN (?)`, materialIDs)
	if err != nil {
		return 0, errors.Wrap(err, "building enrollments count query")
	}
	var count int
	if err = repo.db.GetContext(ctx, &count, repo.db.Rebind(query), args...); err != nil {
		return 0, errors.Wrap(err, "counting enrollments")
	}
	return count, nil
}
