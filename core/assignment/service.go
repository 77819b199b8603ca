package assignment

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/access"
	"github.com/darasa-lms/darasa/core/account"
	"github.com/darasa-lms/darasa/core/material"
)

var (
	// errors
	ErrNotFound           = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		GetAssignmentByID(ctx context.Context, id string) (Assignment, error)
		// GetAssignmentOwner projects the denormalized instructor_id field.
		GetAssignmentOwner(ctx context.Context, id string) (string, error)
		QueryAssignmentsByInstructor(ctx context.Context, instructorID string) ([]Assignment, error)
		QueryAssignmentsByMaterials(ctx context.Context, materialIDs []string) ([]Assignment, error)
		DeleteAssignment(ctx context.Context, id string) error

		// UpsertSubmission inserts or overwrites on the
		// (assignment_id, student_id) conflict key; last write wins.
		UpsertSubmission(ctx context.Context, sub Submission) (Submission, error)
		GetSubmissionByID(ctx context.Context, id string) (Submission, error)
		GetSubmissionForStudent(ctx context.Context, assignmentID, studentID string) (Submission, error)
		QuerySubmissionsByAssignment(ctx context.Context, assignmentID string) ([]Submission, error)
		QuerySubmissionsByStudent(ctx context.Context, studentID string) ([]Submission, error)
		UpdateSubmission(ctx context.Context, sub Submission) (Submission, error)
		CountPendingSubmissionsByAssignments(ctx context.Context, assignmentIDs []string) (int, error)
	}

	// MaterialInfo is the minimal material projection needed for parent
	// ownership and visibility checks.
	MaterialInfo interface {
		GetMaterialByID(ctx context.Context, id string) (material.Material, error)
		GetMaterialOwner(ctx context.Context, id string) (string, error)
	}

	// EnrollmentChecker reports whether a student is enrolled in a material.
	EnrollmentChecker interface {
		IsEnrolled(ctx context.Context, studentID, materialID string) (bool, error)
	}

	// AccountGetter looks an account up for graded notifications.
	AccountGetter interface {
		GetUserByID(ctx context.Context, id string) (account.User, error)
	}

	Service struct {
		repo        Repository
		materials   MaterialInfo
		enrollments EnrollmentChecker
		accounts    AccountGetter
		guard       *access.Guard
		conf        *core.Config
		mailSvc     core.EmailService
	}
)

func NewService(
	repo Repository,
	materials MaterialInfo,
	enrollments EnrollmentChecker,
	accounts AccountGetter,
	guard *access.Guard,
	conf *core.Config,
	mailSvc core.EmailService,
) *Service {
	svc := &Service{
		repo:        repo,
		materials:   materials,
		enrollments: enrollments,
		accounts:    accounts,
		guard:       guard,
		conf:        conf,
		mailSvc:     mailSvc,
	}
	guard.Register(access.KindAssignment, svc.ownerOf)
	guard.Register(access.KindSubmission, svc.submissionOwnerOf)
	return svc
}

// ownerOf projects the assignment's own instructor_id field.
func (svc *Service) ownerOf(ctx context.Context, id string) (string, error) {
	ownerID, err := svc.repo.GetAssignmentOwner(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return "", access.ErrNotFound
		}
		return "", err
	}
	return ownerID, nil
}

// submissionOwnerOf walks submission -> assignment -> material -> instructor.
// Any break in the chain reads as not found rather than forbidden.
func (svc *Service) submissionOwnerOf(ctx context.Context, id string) (string, error) {
	sub, err := svc.repo.GetSubmissionByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrSubmissionNotFound {
			return "", access.ErrNotFound
		}
		return "", err
	}
	asg, err := svc.repo.GetAssignmentByID(ctx, sub.AssignmentID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return "", access.ErrNotFound
		}
		return "", err
	}
	ownerID, err := svc.materials.GetMaterialOwner(ctx, asg.MaterialID)
	if err != nil {
		if errors.Cause(err) == material.ErrNotFound {
			return "", access.ErrNotFound
		}
		return "", err
	}
	return ownerID, nil
}

// Create authors a new assignment into one of actor's own materials.
func (svc *Service) Create(ctx context.Context, actor account.User, na NewAssignment) (Assignment, error) {
	if err := svc.guard.Authorize(ctx, actor, access.KindMaterial, na.MaterialID); err != nil {
		return Assignment{}, err
	}

	now := time.Now().UTC()
	asg := Assignment{
		MaterialID:   na.MaterialID,
		InstructorID: actor.ID,
		Title:        na.Title,
		Description:  na.Description,
		DueDate:      null.TimeFromPtr(na.DueDate),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateAssignment(ctx, asg)
}

// Get returns an assignment if its parent material is visible to actor.
func (svc *Service) Get(ctx context.Context, actor account.User, id string) (Assignment, error) {
	asg, err := svc.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return Assignment{}, err
	}

	mat, err := svc.materials.GetMaterialByID(ctx, asg.MaterialID)
	if err != nil {
		if errors.Cause(err) == material.ErrNotFound {
			return Assignment{}, ErrNotFound
		}
		return Assignment{}, err
	}
	if !mat.IsPublic && mat.InstructorID != actor.ID {
		enrolled, err := svc.enrollments.IsEnrolled(ctx, actor.ID, mat.ID)
		if err != nil {
			return Assignment{}, errors.Wrap(err, "checking enrollment")
		}
		if !enrolled {
			return Assignment{}, ErrNotFound
		}
	}
	return asg, nil
}

func (svc *Service) QueryByInstructor(ctx context.Context, actor account.User) ([]Assignment, error) {
	return svc.repo.QueryAssignmentsByInstructor(ctx, actor.ID)
}

func (svc *Service) Delete(ctx context.Context, actor account.User, id string) error {
	if err := svc.guard.Authorize(ctx, actor, access.KindAssignment, id); err != nil {
		return err
	}
	return svc.repo.DeleteAssignment(ctx, id)
}

// Submit upserts actor's own submission for the assignment; repeated attempts
// overwrite rather than duplicate.
func (svc *Service) Submit(ctx context.Context, actor account.User, assignmentID string, ns NewSubmission) (Submission, error) {
	// the assignment must be visible to the submitting student
	if _, err := svc.Get(ctx, actor, assignmentID); err != nil {
		return Submission{}, err
	}

	sub := Submission{
		AssignmentID: assignmentID,
		StudentID:    actor.ID,
		Content:      ns.Content,
		FileURL:      null.NewString(ns.FileURL, ns.FileURL != ""),
		SubmittedAt:  time.Now().UTC(),
	}
	return svc.repo.UpsertSubmission(ctx, sub)
}

// Grade scores a submission. Only the instructor owning the parent
// assignment's material may grade; a broken ownership chain reads as not
// found. The student is notified by email.
func (svc *Service) Grade(ctx context.Context, actor account.User, submissionID string, gs GradeSubmission) (Submission, error) {
	if err := svc.guard.Authorize(ctx, actor, access.KindSubmission, submissionID); err != nil {
		return Submission{}, err
	}

	sub, err := svc.repo.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return Submission{}, err
	}
	sub.Score = null.IntFrom(*gs.Score)
	sub.Feedback = null.NewString(gs.Feedback, gs.Feedback != "")
	sub.GradedAt = null.TimeFrom(time.Now().UTC())

	sub, err = svc.repo.UpdateSubmission(ctx, sub)
	if err != nil {
		return Submission{}, err
	}

	if student, aerr := svc.accounts.GetUserByID(ctx, sub.StudentID); aerr == nil {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:      []mail.Address{{Name: student.Name, Address: student.Email}},
			Subject: "Your submission has been graded",
			BodyStr: fmt.Sprintf(
				"Hi %s,\n\nYour submission has been graded: %d/100.\nView the feedback at %s/student/dashboard.",
				student.Name, *gs.Score, svc.conf.FrontendBaseURL,
			),
		})
	}
	return sub, nil
}

func (svc *Service) GetOwnSubmission(ctx context.Context, actor account.User, assignmentID string) (Submission, error) {
	return svc.repo.GetSubmissionForStudent(ctx, assignmentID, actor.ID)
}

// QuerySubmissions lists an assignment's submissions for its owning instructor.
func (svc *Service) QuerySubmissions(ctx context.Context, actor account.User, assignmentID string) ([]Submission, error) {
	if err := svc.guard.Authorize(ctx, actor, access.KindAssignment, assignmentID); err != nil {
		return nil, err
	}
	return svc.repo.QuerySubmissionsByAssignment(ctx, assignmentID)
}
