package dummydb

import (
	"sync"

	"github.com/darasa-lms/darasa/core/account"
	"github.com/darasa-lms/darasa/core/assignment"
	"github.com/darasa-lms/darasa/core/enrollment"
	"github.com/darasa-lms/darasa/core/material"
)

// DB is an in-memory database used in tests and local hacking; it mirrors the
// uniqueness constraints the real store enforces.
type (
	DB struct {
		account    *accountTable
		material   *materialTable
		assignment *assignmentTable
		enrollment *enrollmentTable
	}

	accountTable struct {
		sync.RWMutex
		table map[string]*account.User
	}

	materialTable struct {
		sync.RWMutex
		materials map[string]*material.Material
		videos    map[string]*material.Video
		resources map[string]*material.Resource
	}

	assignmentTable struct {
		sync.RWMutex
		assignments map[string]*assignment.Assignment
		submissions map[string]*assignment.Submission
	}

	enrollmentTable struct {
		sync.RWMutex
		table map[string]*enrollment.Enrollment
	}
)

func Open() (*DB, error) {
	db := &DB{
		account: &accountTable{table: make(map[string]*account.User)},
		material: &materialTable{
			materials: make(map[string]*material.Material),
			videos:    make(map[string]*material.Video),
			resources: make(map[string]*material.Resource),
		},
		assignment: &assignmentTable{
			assignments: make(map[string]*assignment.Assignment),
			submissions: make(map[string]*assignment.Submission),
		},
		enrollment: &enrollmentTable{table: make(map[string]*enrollment.Enrollment)},
	}
	return db, nil
}
