package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasa-lms/darasa/core/assignment"
)

type assignmentRepository struct {
	db *assignmentTable
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *DB) *assignmentRepository {
	return &assignmentRepository{db: db.assignment}
}

func (repo *assignmentRepository) CreateAssignment(_ context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	asg.ID = uuid.New().String()
	repo.db.assignments[asg.ID] = &asg
	return asg, nil
}

func (repo *assignmentRepository) GetAssignmentByID(_ context.Context, id string) (assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if asg, ok := repo.db.assignments[id]; ok {
		return *asg, nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) GetAssignmentOwner(_ context.Context, id string) (string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if asg, ok := repo.db.assignments[id]; ok {
		return asg.InstructorID, nil
	}
	return "", assignment.ErrNotFound
}

func (repo *assignmentRepository) QueryAssignmentsByInstructor(_ context.Context, instructorID string) ([]assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	assignments := make([]assignment.Assignment, 0)
	for _, asg := range repo.db.assignments {
		if asg.InstructorID == instructorID {
			assignments = append(assignments, *asg)
		}
	}
	sortAssignments(assignments)
	return assignments, nil
}

func (repo *assignmentRepository) QueryAssignmentsByMaterials(_ context.Context, materialIDs []string) ([]assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	wanted := make(map[string]bool, len(materialIDs))
	for _, id := range materialIDs {
		wanted[id] = true
	}

	assignments := make([]assignment.Assignment, 0)
	for _, asg := range repo.db.assignments {
		if wanted[asg.MaterialID] {
			assignments = append(assignments, *asg)
		}
	}
	sortAssignments(assignments)
	return assignments, nil
}

func (repo *assignmentRepository) DeleteAssignment(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.assignments, id)

	// cascading deletes
	for sid, sub := range repo.db.submissions {
		if sub.AssignmentID == id {
			delete(repo.db.submissions, sid)
		}
	}
	return nil
}

func (repo *assignmentRepository) UpsertSubmission(_ context.Context, sub assignment.Submission) (assignment.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// overwrite on the (assignment, student) conflict key
	for _, existing := range repo.db.submissions {
		if existing.AssignmentID == sub.AssignmentID && existing.StudentID == sub.StudentID {
			sub.ID = existing.ID
			sub.Score = existing.Score
			sub.Feedback = existing.Feedback
			sub.GradedAt = existing.GradedAt
			repo.db.submissions[sub.ID] = &sub
			return sub, nil
		}
	}

	sub.ID = uuid.New().String()
	repo.db.submissions[sub.ID] = &sub
	return sub, nil
}

func (repo *assignmentRepository) GetSubmissionByID(_ context.Context, id string) (assignment.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sub, ok := repo.db.submissions[id]; ok {
		return *sub, nil
	}
	return assignment.Submission{}, assignment.ErrSubmissionNotFound
}

func (repo *assignmentRepository) GetSubmissionForStudent(_ context.Context, assignmentID, studentID string) (assignment.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, sub := range repo.db.submissions {
		if sub.AssignmentID == assignmentID && sub.StudentID == studentID {
			return *sub, nil
		}
	}
	return assignment.Submission{}, assignment.ErrSubmissionNotFound
}

func (repo *assignmentRepository) QuerySubmissionsByAssignment(_ context.Context, assignmentID string) ([]assignment.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	submissions := make([]assignment.Submission, 0)
	for _, sub := range repo.db.submissions {
		if sub.AssignmentID == assignmentID {
			submissions = append(submissions, *sub)
		}
	}
	sortSubmissions(submissions)
	return submissions, nil
}

func (repo *assignmentRepository) QuerySubmissionsByStudent(_ context.Context, studentID string) ([]assignment.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	submissions := make([]assignment.Submission, 0)
	for _, sub := range repo.db.submissions {
		if sub.StudentID == studentID {
			submissions = append(submissions, *sub)
		}
	}
	sortSubmissions(submissions)
	return submissions, nil
}

func (repo *assignmentRepository) UpdateSubmission(_ context.Context, sub assignment.Submission) (assignment.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.submissions[sub.ID]; !ok {
		return assignment.Submission{}, assignment.ErrSubmissionNotFound
	}
	repo.db.submissions[sub.ID] = &sub
	return sub, nil
}

func (repo *assignmentRepository) CountPendingSubmissionsByAssignments(_ context.Context, assignmentIDs []string) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	wanted := make(map[string]bool, len(assignmentIDs))
	for _, id := range assignmentIDs {
		wanted[id] = true
	}

	var count int
	for _, sub := range repo.db.submissions {
		if wanted[sub.AssignmentID] && !sub.Score.Valid {
			count++
		}
	}
	return count, nil
}

func sortAssignments(assignments []assignment.Assignment) {
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].CreatedAt.After(assignments[j].CreatedAt) })
}

func sortSubmissions(submissions []assignment.Submission) {
	sort.Slice(submissions, func(i, j int) bool { return submissions[i].SubmittedAt.After(submissions[j].SubmittedAt) })
}
