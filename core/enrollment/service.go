package enrollment

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core/account"
	"github.com/darasa-lms/darasa/core/material"
)

var (
	// errors
	ErrAlreadyEnrolled = errors.New("already enrolled in this material")
	ErrNotAvailable    = errors.New("this material is not available for enrollment")
)

type (
	Repository interface {
		// CreateEnrollment must return ErrAlreadyEnrolled on a
		// (student, material) uniqueness violation; the store's unique index
		// is the authority under concurrent enroll attempts.
		CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		IsEnrolled(ctx context.Context, studentID, materialID string) (bool, error)
		QueryEnrollmentsByStudent(ctx context.Context, studentID string) ([]Enrollment, error)
		CountEnrollmentsByMaterials(ctx context.Context, materialIDs []string) (int, error)
	}

	// MaterialGetter is the minimal material projection the enroll check needs.
	MaterialGetter interface {
		GetMaterialByID(ctx context.Context, id string) (material.Material, error)
	}

	Service struct {
		repo      Repository
		materials MaterialGetter
	}
)

func NewService(repo Repository, materials MaterialGetter) *Service {
	return &Service{
		repo:      repo,
		materials: materials,
	}
}

// Enroll registers actor into the material. The material must be public and
// the student not already enrolled; the pre-check is advisory only, the
// store's unique index settles races.
func (svc *Service) Enroll(ctx context.Context, actor account.User, materialID string) (Enrollment, error) {
	mat, err := svc.materials.GetMaterialByID(ctx, materialID)
	if err != nil {
		return Enrollment{}, err
	}
	if !mat.IsPublic {
		return Enrollment{}, ErrNotAvailable
	}

	enrolled, err := svc.repo.IsEnrolled(ctx, actor.ID, materialID)
	if err != nil {
		return Enrollment{}, errors.Wrap(err, "checking existing enrollment")
	}
	if enrolled {
		return Enrollment{}, ErrAlreadyEnrolled
	}

	enr := Enrollment{
		StudentID:  actor.ID,
		MaterialID: materialID,
		CreatedAt:  time.Now().UTC(),
	}
	return svc.repo.CreateEnrollment(ctx, enr)
}

func (svc *Service) QueryByStudent(ctx context.Context, actor account.User) ([]Enrollment, error) {
	return svc.repo.QueryEnrollmentsByStudent(ctx, actor.ID)
}

func (svc *Service) IsEnrolled(ctx context.Context, studentID, materialID string) (bool, error) {
	return svc.repo.IsEnrolled(ctx, studentID, materialID)
}
