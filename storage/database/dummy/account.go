package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/darasa-lms/darasa/core/account"
)

type accountRepository struct {
	db *accountTable
}

var _ account.Repository = (*accountRepository)(nil) // interface compliance check

func NewAccountRepository(db *DB) *accountRepository {
	return &accountRepository{db: db.account}
}

func (repo *accountRepository) CheckEmailUniqueness(_ context.Context, email string, excludedUsers ...account.User) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.db.table {
		if usr.Email != email {
			continue
		}
		excluded := false
		for _, ex := range excludedUsers {
			if ex.ID == usr.ID {
				excluded = true
				break
			}
		}
		if !excluded {
			return account.ErrEmailExists
		}
	}
	return nil
}

func (repo *accountRepository) CreateUser(_ context.Context, usr account.User) (account.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr.ID = uuid.New().String()
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *accountRepository) GetUserByID(_ context.Context, id string) (account.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if usr, ok := repo.db.table[id]; ok {
		return *usr, nil
	}
	return account.User{}, account.ErrNotFound
}

func (repo *accountRepository) GetUserByEmail(_ context.Context, email string) (account.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.db.table {
		if usr.Email == email {
			return *usr, nil
		}
	}
	return account.User{}, account.ErrNotFound
}

func (repo *accountRepository) UpdateUser(_ context.Context, usr account.User) (account.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[usr.ID]; !ok {
		return account.User{}, account.ErrNotFound
	}
	repo.db.table[usr.ID] = &usr
	return usr, nil
}
