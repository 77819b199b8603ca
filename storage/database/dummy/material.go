package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasa-lms/darasa/core/material"
)

type materialRepository struct {
	db *materialTable
}

var _ material.Repository = (*materialRepository)(nil) // interface compliance check

func NewMaterialRepository(db *DB) *materialRepository {
	return &materialRepository{db: db.material}
}

func (repo *materialRepository) CreateMaterial(_ context.Context, mat material.Material) (material.Material, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	mat.ID = uuid.New().String()
	repo.db.materials[mat.ID] = &mat
	return mat, nil
}

func (repo *materialRepository) GetMaterialByID(_ context.Context, id string) (material.Material, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if mat, ok := repo.db.materials[id]; ok {
		return *mat, nil
	}
	return material.Material{}, material.ErrNotFound
}

func (repo *materialRepository) GetMaterialOwner(_ context.Context, id string) (string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if mat, ok := repo.db.materials[id]; ok {
		return mat.InstructorID, nil
	}
	return "", material.ErrNotFound
}

func (repo *materialRepository) QueryMaterialsByInstructor(_ context.Context, instructorID string) ([]material.Material, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	materials := make([]material.Material, 0)
	for _, mat := range repo.db.materials {
		if mat.InstructorID == instructorID {
			materials = append(materials, *mat)
		}
	}
	sortMaterials(materials)
	return materials, nil
}

func (repo *materialRepository) QueryMaterialsByIDs(_ context.Context, ids []string) ([]material.Material, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	materials := make([]material.Material, 0, len(ids))
	for _, id := range ids {
		if mat, ok := repo.db.materials[id]; ok {
			materials = append(materials, *mat)
		}
	}
	sortMaterials(materials)
	return materials, nil
}

func (repo *materialRepository) QueryPublicMaterials(_ context.Context) ([]material.Material, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	materials := make([]material.Material, 0)
	for _, mat := range repo.db.materials {
		if mat.IsPublic {
			materials = append(materials, *mat)
		}
	}
	sortMaterials(materials)
	return materials, nil
}

func (repo *materialRepository) UpdateMaterial(_ context.Context, mat material.Material) (material.Material, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.materials[mat.ID]; !ok {
		return material.Material{}, material.ErrNotFound
	}
	repo.db.materials[mat.ID] = &mat
	return mat, nil
}

func (repo *materialRepository) DeleteMaterial(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.materials, id)

	// cascading deletes
	for vid, v := range repo.db.videos {
		if v.MaterialID == id {
			delete(repo.db.videos, vid)
		}
	}
	for rid, r := range repo.db.resources {
		if r.MaterialID == id {
			delete(repo.db.resources, rid)
		}
	}
	return nil
}

func (repo *materialRepository) CreateVideo(_ context.Context, vid material.Video) (material.Video, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	vid.ID = uuid.New().String()
	repo.db.videos[vid.ID] = &vid
	return vid, nil
}

func (repo *materialRepository) GetVideoByID(_ context.Context, id string) (material.Video, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if vid, ok := repo.db.videos[id]; ok {
		return *vid, nil
	}
	return material.Video{}, material.ErrVideoNotFound
}

func (repo *materialRepository) QueryVideosByMaterial(_ context.Context, materialID string) ([]material.Video, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	videos := make([]material.Video, 0)
	for _, vid := range repo.db.videos {
		if vid.MaterialID == materialID {
			videos = append(videos, *vid)
		}
	}
	sort.Slice(videos, func(i, j int) bool { return videos[i].Position < videos[j].Position })
	return videos, nil
}

func (repo *materialRepository) DeleteVideo(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.videos, id)
	return nil
}

func (repo *materialRepository) CreateResource(_ context.Context, res material.Resource) (material.Resource, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	res.ID = uuid.New().String()
	repo.db.resources[res.ID] = &res
	return res, nil
}

func (repo *materialRepository) QueryResourcesByMaterial(_ context.Context, materialID string) ([]material.Resource, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	resources := make([]material.Resource, 0)
	for _, res := range repo.db.resources {
		if res.MaterialID == materialID {
			resources = append(resources, *res)
		}
	}
	sort.Slice(resources, func(i, j int) bool { return resources[i].CreatedAt.After(resources[j].CreatedAt) })
	return resources, nil
}

func sortMaterials(materials []material.Material) {
	sort.Slice(materials, func(i, j int) bool { return materials[i].CreatedAt.After(materials[j].CreatedAt) })
}
