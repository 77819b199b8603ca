package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasa-lms/darasa/core/assignment"
)

type assignmentRepository struct {
	db *sqlx.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *sqlx.DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

type assignmentRow struct {
	ID           string    `db:"id"`
	MaterialID   string    `db:"material_id"`
	InstructorID string    `db:"instructor_id"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	DueDate      null.Time `db:"due_date"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r assignmentRow) model() assignment.Assignment {
	return assignment.Assignment{
		ID:           r.ID,
		MaterialID:   r.MaterialID,
		InstructorID: r.InstructorID,
		Title:        r.Title,
		Description:  r.Description,
		DueDate:      r.DueDate,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type submissionRow struct {
	ID           string      `db:"id"`
	AssignmentID string      `db:"assignment_id"`
	StudentID    string      `db:"student_id"`
	Content      string      `db:"content"`
	FileURL      null.String `db:"file_url"`
	SubmittedAt  time.Time   `db:"submitted_at"`
	Score        null.Int    `db:"score"`
	Feedback     null.String `db:"feedback"`
	GradedAt     null.Time   `db:"graded_at"`
}

func (r submissionRow) model() assignment.Submission {
	return assignment.Submission{
		ID:           r.ID,
		AssignmentID: r.AssignmentID,
		StudentID:    r.StudentID,
		Content:      r.Content,
		FileURL:      r.FileURL,
		SubmittedAt:  r.SubmittedAt,
		Score:        r.Score,
		Feedback:     r.Feedback,
		GradedAt:     r.GradedAt,
	}
}

func assignmentModels(rows []assignmentRow) []assignment.Assignment {
	assignments := make([]assignment.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.model())
	}
	return assignments
}

func submissionModels(rows []submissionRow) []assignment.Submission {
	submissions := make([]assignment.Submission, 0, len(rows))
	for _, row := range rows {
		submissions = append(submissions, row.model())
	}
	return submissions
}

// trapNoRowsErr maps psql "no rows" err to assignment.ErrNotFound
func (repo *assignmentRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return assignment.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	asg.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO assignments (id, material_id, instructor_id, title, description, due_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		asg.ID, asg.MaterialID, asg.InstructorID, asg.Title, asg.Description, asg.DueDate, asg.CreatedAt, asg.UpdatedAt,
	)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "creating assignment")
	}
	return asg, nil
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id string) (assignment.Assignment, error) {
	var row assignmentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM assignments WHERE id = $1`, id); err != nil {
		return assignment.Assignment{}, repo.trapNoRowsErr(err, "getting assignment by ID")
	}
	return row.model(), nil
}

func (repo *assignmentRepository) GetAssignmentOwner(ctx context.Context, id string) (string, error) {
	var ownerID string
	if err := repo.db.GetContext(ctx, &ownerID, `SELECT instructor_id FROM assignments WHERE id = $1`, id); err != nil {
		return "", repo.trapNoRowsErr(err, "getting assignment owner")
	}
	return ownerID, nil
}

func (repo *assignmentRepository) QueryAssignmentsByInstructor(ctx context.Context, instructorID string) ([]assignment.Assignment, error) {
	rows := make([]assignmentRow, 0)
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM assignments WHERE instructor_id = $1 ORDER BY created_at DESC`, instructorID)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments by instructor")
	}
	return assignmentModels(rows), nil
}

func (repo *assignmentRepository) QueryAssignmentsByMaterials(ctx context.Context, materialIDs []string) ([]assignment.Assignment, error) {
	if len(materialIDs) == 0 {
		return make([]assignment.Assignment, 0), nil
	}
	query, args, err := sqlx.In(`SELECT * FROM assignments WHERE material_id IN (?) ORDER BY created_at DESC`, materialIDs)
	if err != nil {
		return nil, errors.Wrap(err, "building assignments query")
	}
	rows := make([]assignmentRow, 0)
	if err = repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying assignments by materials")
	}
	return assignmentModels(rows), nil
}

// DeleteAssignment relies on ON DELETE CASCADE for submissions.
func (repo *assignmentRepository) DeleteAssignment(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return nil
}

// UpsertSubmission overwrites on the (assignment, student) conflict key,
// keeping any existing grade untouched. Last write wins.
func (repo *assignmentRepository) UpsertSubmission(ctx context.Context, sub assignment.Submission) (assignment.Submission, error) {
	sub.ID = uuid.New().String()
	var row submissionRow
	err := repo.db.GetContext(ctx, &row,
		`INSERT INTO submissions (id, assignment_id, student_id, content, file_url, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (assignment_id, student_id) DO UPDATE
		 SET content = EXCLUDED.content, file_url = EXCLUDED.file_url, submitted_at = EXCLUDED.submitted_at
		 RETURNING *`,
		sub.ID, sub.AssignmentID, sub.StudentID, sub.Content, sub.FileURL, sub.SubmittedAt,
	)
	if err != nil {
		return assignment.Submission{}, errors.Wrap(err, "upserting submission")
	}
	return row.model(), nil
}

func (repo *assignmentRepository) GetSubmissionByID(ctx context.Context, id string) (assignment.Submission, error) {
	var row submissionRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM submissions WHERE id = $1`, id); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return assignment.Submission{}, assignment.ErrSubmissionNotFound
		}
		return assignment.Submission{}, errors.Wrap(err, "getting submission by ID")
	}
	return row.model(), nil
}

func (repo *assignmentRepository) GetSubmissionForStudent(ctx context.Context, assignmentID, studentID string) (assignment.Submission, error) {
	var row submissionRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT * FROM submissions WHERE assignment_id = $1 AND student_id = $2`, assignmentID, studentID)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return assignment.Submission{}, assignment.ErrSubmissionNotFound
		}
		return assignment.Submission{}, errors.Wrap(err, "getting student submission")
	}
	return row.model(), nil
}

func (repo *assignmentRepository) QuerySubmissionsByAssignment(ctx context.Context, assignmentID string) ([]assignment.Submission, error) {
	rows := make([]submissionRow, 0)
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM submissions WHERE assignment_id = $1 ORDER BY submitted_at DESC`, assignmentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying submissions by assignment")
	}
	return submissionModels(rows), nil
}

func (repo *assignmentRepository) QuerySubmissionsByStudent(ctx context.Context, studentID string) ([]assignment.Submission, error) {
	rows := make([]submissionRow, 0)
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM submissions WHERE student_id = $1 ORDER BY submitted_at DESC`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying submissions by student")
	}
	return submissionModels(rows), nil
}

func (repo *assignmentRepository) UpdateSubmission(ctx context.Context, sub assignment.Submission) (assignment.Submission, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE submissions
		 SET content = $2, file_url = $3, submitted_at = $4, score = $5, feedback = $6, graded_at = $7
		 WHERE id = $1`,
		sub.ID, sub.Content, sub.FileURL, sub.SubmittedAt, sub.Score, sub.Feedback, sub.GradedAt,
	)
	if err != nil {
		return assignment.Submission{}, errors.Wrap(err, "updating submission")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return assignment.Submission{}, assignment.ErrSubmissionNotFound
	}
	return sub, nil
}

func (repo *assignmentRepository) CountPendingSubmissionsByAssignments(ctx context.Context, assignmentIDs []string) (int, error) {
	if len(assignmentIDs) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(
		`SELECT COUNT(*) FROM submissions WHERE assignment_id IN (?) AND score IS NULL`, assignmentIDs)
	if err != nil {
		return 0, errors.Wrap(err, "building pending submissions query")
	}
	var count int
	if err = repo.db.GetContext(ctx, &count, repo.db.Rebind(query), args...); err != nil {
		return 0, errors.Wrap(err, "counting pending submissions")
	}
	return count, nil
}
