package dashboard

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core/account"
	"github.com/darasa-lms/darasa/core/assignment"
	"github.com/darasa-lms/darasa/core/enrollment"
	"github.com/darasa-lms/darasa/core/material"
)

var NowFunc = time.Now // mockable

type (
	// MaterialReader is the material projection the composer reads.
	MaterialReader interface {
		QueryMaterialsByInstructor(ctx context.Context, instructorID string) ([]material.Material, error)
		QueryMaterialsByIDs(ctx context.Context, ids []string) ([]material.Material, error)
		QueryPublicMaterials(ctx context.Context) ([]material.Material, error)
	}

	AssignmentReader interface {
		QueryAssignmentsByInstructor(ctx context.Context, instructorID string) ([]assignment.Assignment, error)
		QueryAssignmentsByMaterials(ctx context.Context, materialIDs []string) ([]assignment.Assignment, error)
		QuerySubmissionsByStudent(ctx context.Context, studentID string) ([]assignment.Submission, error)
		CountPendingSubmissionsByAssignments(ctx context.Context, assignmentIDs []string) (int, error)
	}

	EnrollmentReader interface {
		QueryEnrollmentsByStudent(ctx context.Context, studentID string) ([]enrollment.Enrollment, error)
		CountEnrollmentsByMaterials(ctx context.Context, materialIDs []string) (int, error)
	}

	// Service composes role-scoped dashboard view models. It is read-only;
	// the reads are not transactional, staleness between them is acceptable.
	Service struct {
		materials   MaterialReader
		assignments AssignmentReader
		enrollments EnrollmentReader
	}
)

func NewService(materials MaterialReader, assignments AssignmentReader, enrollments EnrollmentReader) *Service {
	return &Service{
		materials:   materials,
		assignments: assignments,
		enrollments: enrollments,
	}
}

// InstructorView aggregates the actor's materials, assignments, total
// enrollment count across their materials and pending-review count across
// their assignments.
func (svc *Service) InstructorView(ctx context.Context, actor account.User) (InstructorView, error) {
	materials, err := svc.materials.QueryMaterialsByInstructor(ctx, actor.ID)
	if err != nil {
		return InstructorView{}, errors.Wrap(err, "querying materials")
	}
	assignments, err := svc.assignments.QueryAssignmentsByInstructor(ctx, actor.ID)
	if err != nil {
		return InstructorView{}, errors.Wrap(err, "querying assignments")
	}

	matIDs := make([]string, 0, len(materials))
	for _, m := range materials {
		matIDs = append(matIDs, m.ID)
	}
	asgIDs := make([]string, 0, len(assignments))
	for _, a := range assignments {
		asgIDs = append(asgIDs, a.ID)
	}

	totalEnrollments, err := svc.enrollments.CountEnrollmentsByMaterials(ctx, matIDs)
	if err != nil {
		return InstructorView{}, errors.Wrap(err, "counting enrollments")
	}
	pending, err := svc.assignments.CountPendingSubmissionsByAssignments(ctx, asgIDs)
	if err != nil {
		return InstructorView{}, errors.Wrap(err, "counting pending submissions")
	}

	return InstructorView{
		Materials:          materials,
		Assignments:        assignments,
		TotalEnrollments:   totalEnrollments,
		PendingSubmissions: pending,
	}, nil
}

// StudentView aggregates the actor's enrollments and the assignments visible
// to them: those of enrolled materials plus those of public materials, each
// annotated with the actor's own submission status.
func (svc *Service) StudentView(ctx context.Context, actor account.User) (StudentView, error) {
	enrollments, err := svc.enrollments.QueryEnrollmentsByStudent(ctx, actor.ID)
	if err != nil {
		return StudentView{}, errors.Wrap(err, "querying enrollments")
	}

	enrolledIDs := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		enrolledIDs = append(enrolledIDs, e.MaterialID)
	}
	enrolledMats, err := svc.materials.QueryMaterialsByIDs(ctx, enrolledIDs)
	if err != nil {
		return StudentView{}, errors.Wrap(err, "querying enrolled materials")
	}
	publicMats, err := svc.materials.QueryPublicMaterials(ctx)
	if err != nil {
		return StudentView{}, errors.Wrap(err, "querying public materials")
	}

	// visible materials = enrolled ∪ public
	visible := make(map[string]material.Material, len(enrolledMats)+len(publicMats))
	for _, m := range enrolledMats {
		visible[m.ID] = m
	}
	for _, m := range publicMats {
		visible[m.ID] = m
	}
	visibleIDs := make([]string, 0, len(visible))
	for id := range visible {
		visibleIDs = append(visibleIDs, id)
	}

	assignments, err := svc.assignments.QueryAssignmentsByMaterials(ctx, visibleIDs)
	if err != nil {
		return StudentView{}, errors.Wrap(err, "querying assignments")
	}
	submissions, err := svc.assignments.QuerySubmissionsByStudent(ctx, actor.ID)
	if err != nil {
		return StudentView{}, errors.Wrap(err, "querying submissions")
	}

	// join in memory by assignment ID
	subIdx := make(map[string]assignment.Submission, len(submissions))
	for _, s := range submissions {
		subIdx[s.AssignmentID] = s
	}

	now := NowFunc()
	studentAsgs := make([]StudentAssignment, 0, len(assignments))
	for _, asg := range assignments {
		sa := StudentAssignment{
			Assignment:    asg,
			MaterialTitle: visible[asg.MaterialID].Title,
			Status:        StatusPending,
		}
		if sub, ok := subIdx[asg.ID]; ok {
			sub := sub
			sa.Submission = &sub
			sa.Status = StatusSubmitted
		} else if asg.DueDate.Valid && asg.DueDate.Time.Before(now) {
			sa.Status = StatusOverdue
		}
		studentAsgs = append(studentAsgs, sa)
	}

	enrolled := make([]EnrolledMaterial, 0, len(enrolledMats))
	for _, m := range enrolledMats {
		enrolled = append(enrolled, EnrolledMaterial{
			MaterialID:  m.ID,
			Title:       m.Title,
			Description: m.Description,
		})
	}

	return StudentView{
		Enrollments: enrolled,
		Assignments: studentAsgs,
	}, nil
}
