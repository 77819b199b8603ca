package material

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core/access"
	"github.com/darasa-lms/darasa/core/account"
)

var (
	// errors
	ErrNotFound      = errors.New("material not found")
	ErrVideoNotFound = errors.New("video not found")
)

type (
	Repository interface {
		CreateMaterial(ctx context.Context, mat Material) (Material, error)
		GetMaterialByID(ctx context.Context, id string) (Material, error)
		// GetMaterialOwner returns the owning instructor ID only; a minimal
		// projection for ownership checks.
		GetMaterialOwner(ctx context.Context, id string) (string, error)
		QueryMaterialsByInstructor(ctx context.Context, instructorID string) ([]Material, error)
		QueryPublicMaterials(ctx context.Context) ([]Material, error)
		UpdateMaterial(ctx context.Context, mat Material) (Material, error)
		DeleteMaterial(ctx context.Context, id string) error

		CreateVideo(ctx context.Context, vid Video) (Video, error)
		GetVideoByID(ctx context.Context, id string) (Video, error)
		QueryVideosByMaterial(ctx context.Context, materialID string) ([]Video, error)
		DeleteVideo(ctx context.Context, id string) error

		CreateResource(ctx context.Context, res Resource) (Resource, error)
		QueryResourcesByMaterial(ctx context.Context, materialID string) ([]Resource, error)
	}

	// EnrollmentChecker reports whether a student is enrolled in a material.
	EnrollmentChecker interface {
		IsEnrolled(ctx context.Context, studentID, materialID string) (bool, error)
	}

	Service struct {
		repo        Repository
		enrollments EnrollmentChecker
		guard       *access.Guard
	}
)

func NewService(repo Repository, enrollments EnrollmentChecker, guard *access.Guard) *Service {
	svc := &Service{
		repo:        repo,
		enrollments: enrollments,
		guard:       guard,
	}
	guard.Register(access.KindMaterial, svc.ownerOf)
	guard.Register(access.KindVideo, svc.videoOwnerOf)
	return svc
}

func (svc *Service) ownerOf(ctx context.Context, id string) (string, error) {
	ownerID, err := svc.repo.GetMaterialOwner(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return "", access.ErrNotFound
		}
		return "", err
	}
	return ownerID, nil
}

// videoOwnerOf walks video -> material -> instructor.
func (svc *Service) videoOwnerOf(ctx context.Context, id string) (string, error) {
	vid, err := svc.repo.GetVideoByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrVideoNotFound {
			return "", access.ErrNotFound
		}
		return "", err
	}
	return svc.ownerOf(ctx, vid.MaterialID)
}

func (svc *Service) Create(ctx context.Context, actor account.User, nm NewMaterial) (Material, error) {
	now := time.Now().UTC()
	mat := Material{
		InstructorID: actor.ID,
		Title:        nm.Title,
		Description:  nm.Description,
		IsPublic:     nm.IsPublic,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateMaterial(ctx, mat)
}

// Get returns a material if actor may see it: its owner, an enrolled student,
// or anyone when it is public. Hidden drafts read as not found.
func (svc *Service) Get(ctx context.Context, actor account.User, id string) (Detail, error) {
	mat, err := svc.repo.GetMaterialByID(ctx, id)
	if err != nil {
		return Detail{}, err
	}

	if !mat.IsPublic && mat.InstructorID != actor.ID {
		enrolled, err := svc.enrollments.IsEnrolled(ctx, actor.ID, mat.ID)
		if err != nil {
			return Detail{}, errors.Wrap(err, "checking enrollment")
		}
		if !enrolled {
			return Detail{}, ErrNotFound
		}
	}

	videos, err := svc.repo.QueryVideosByMaterial(ctx, mat.ID)
	if err != nil {
		return Detail{}, errors.Wrap(err, "querying videos")
	}
	resources, err := svc.repo.QueryResourcesByMaterial(ctx, mat.ID)
	if err != nil {
		return Detail{}, errors.Wrap(err, "querying resources")
	}
	return Detail{Material: mat, Videos: videos, Resources: resources}, nil
}

func (svc *Service) QueryOwned(ctx context.Context, actor account.User) ([]Material, error) {
	return svc.repo.QueryMaterialsByInstructor(ctx, actor.ID)
}

func (svc *Service) QueryPublic(ctx context.Context) ([]Material, error) {
	return svc.repo.QueryPublicMaterials(ctx)
}

func (svc *Service) Update(ctx context.Context, actor account.User, id string, um UpdateMaterial) (Material, error) {
	if err := svc.guard.Authorize(ctx, actor, access.KindMaterial, id); err != nil {
		return Material{}, err
	}

	mat, err := svc.repo.GetMaterialByID(ctx, id)
	if err != nil {
		return Material{}, err
	}
	if err := um.Validate(mat); err != nil {
		return Material{}, err
	}

	mat.Title = um.Title
	mat.Description = um.Description
	if um.IsPublic != nil {
		mat.IsPublic = *um.IsPublic
	}
	mat.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateMaterial(ctx, mat)
}

// Delete removes a material; attached videos, resources, assignments and
// submissions go with it (cascading deletes in the store).
func (svc *Service) Delete(ctx context.Context, actor account.User, id string) error {
	if err := svc.guard.Authorize(ctx, actor, access.KindMaterial, id); err != nil {
		return err
	}
	return svc.repo.DeleteMaterial(ctx, id)
}

func (svc *Service) AddVideo(ctx context.Context, actor account.User, materialID string, nv NewVideo) (Video, error) {
	if err := svc.guard.Authorize(ctx, actor, access.KindMaterial, materialID); err != nil {
		return Video{}, err
	}
	vid := Video{
		MaterialID: materialID,
		Title:      nv.Title,
		YouTubeURL: nv.YouTubeURL,
		Position:   nv.Position,
		CreatedAt:  time.Now().UTC(),
	}
	return svc.repo.CreateVideo(ctx, vid)
}

func (svc *Service) RemoveVideo(ctx context.Context, actor account.User, videoID string) error {
	if err := svc.guard.Authorize(ctx, actor, access.KindVideo, videoID); err != nil {
		return err
	}
	return svc.repo.DeleteVideo(ctx, videoID)
}

func (svc *Service) AddResource(ctx context.Context, actor account.User, materialID string, nr NewResource) (Resource, error) {
	if err := svc.guard.Authorize(ctx, actor, access.KindMaterial, materialID); err != nil {
		return Resource{}, err
	}
	res := Resource{
		MaterialID:  materialID,
		Title:       nr.Title,
		FileURL:     nr.FileURL,
		FilePath:    nr.FilePath,
		ContentType: nr.ContentType,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateResource(ctx, res)
}
