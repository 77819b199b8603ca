package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core/account"
)

type accountRepository struct {
	db *sqlx.DB
}

var _ account.Repository = (*accountRepository)(nil) // interface compliance check

func NewAccountRepository(db *sqlx.DB) *accountRepository {
	return &accountRepository{db: db}
}

// userRow maps the profiles table; models are built from it right after the
// store call so nothing downstream touches raw rows.
type userRow struct {
	ID           string       `db:"id"`
	Name         string       `db:"name"`
	Email        string       `db:"email"`
	Role         string       `db:"role"`
	IsActive     bool         `db:"is_active"`
	PasswordHash []byte       `db:"password_hash"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
	LastLogin    sql.NullTime `db:"last_login"`
}

func (r userRow) model() account.User {
	usr := account.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Role:         r.Role,
		IsActive:     r.IsActive,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.LastLogin.Valid {
		usr.LastLogin = r.LastLogin.Time
	}
	return usr
}

// trapNoRowsErr maps psql "no rows" err to account.ErrNotFound
func (repo *accountRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return account.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *accountRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...account.User) error {
	query := `SELECT COUNT(*) FROM profiles WHERE email = $1`
	args := []interface{}{email}
	if len(excludedUsers) > 0 {
		excludedIDs := make([]string, 0, len(excludedUsers))
		for _, usr := range excludedUsers {
			excludedIDs = append(excludedIDs, usr.ID)
		}
		var err error
		query, args, err = sqlx.In(`SELECT COUNT(*) FROM profiles WHERE email = ? AND id NOT IN (?)`, email, excludedIDs)
		if err != nil {
			return errors.Wrap(err, "building uniqueness query")
		}
		query = repo.db.Rebind(query)
	}

	var count int
	if err := repo.db.GetContext(ctx, &count, query, args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if count > 0 {
		return account.ErrEmailExists
	}
	return nil
}

func (repo *accountRepository) CreateUser(ctx context.Context, usr account.User) (account.User, error) {
	usr.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO profiles (id, name, email, role, is_active, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		usr.ID, usr.Name, usr.Email, usr.Role, usr.IsActive, usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt,
	)
	if err != nil {
		return account.User{}, errors.Wrap(err, "creating profile")
	}
	return usr, nil
}

func (repo *accountRepository) GetUserByID(ctx context.Context, id string) (account.User, error) {
	var row userRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM profiles WHERE id = $1`, id); err != nil {
		return account.User{}, repo.trapNoRowsErr(err, "getting profile by ID")
	}
	return row.model(), nil
}

func (repo *accountRepository) GetUserByEmail(ctx context.Context, email string) (account.User, error) {
	var row userRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM profiles WHERE email = $1`, email); err != nil {
		return account.User{}, repo.trapNoRowsErr(err, "getting profile by email")
	}
	return row.model(), nil
}

func (repo *accountRepository) UpdateUser(ctx context.Context, usr account.User) (account.User, error) {
	var lastLogin sql.NullTime
	if !usr.LastLogin.IsZero() {
		lastLogin = sql.NullTime{Time: usr.LastLogin, Valid: true}
	}
	res, err := repo.db.ExecContext(ctx,
		`UPDATE profiles
		 SET name = $2, email = $3, role = $4, is_active = $5, password_hash = $6, updated_at = $7, last_login = $8
		 WHERE id = $1`,
		usr.ID, usr.Name, usr.Email, usr.Role, usr.IsActive, usr.PasswordHash, usr.UpdatedAt, lastLogin,
	)
	if err != nil {
		return account.User{}, errors.Wrap(err, "updating profile")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return account.User{}, account.ErrNotFound
	}
	return usr, nil
}
