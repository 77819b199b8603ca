package access

import (
	"context"

	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core/account"
)

var (
	// ErrForbidden denies a mutation on an entity the actor does not own.
	ErrForbidden = errors.New("permission denied")
	// ErrNotFound hides entities the actor may not know exist.
	ErrNotFound = errors.New("not found")
)

// Kind identifies an entity kind registered with the Guard.
type Kind string

const (
	KindMaterial   = Kind("material")
	KindAssignment = Kind("assignment")
	KindSubmission = Kind("submission")
	KindVideo      = Kind("video")
)

// OwnerFunc projects the owning account ID of the identified entity.
// It must return ErrNotFound when the entity, or any link in its ownership
// chain, is missing.
type OwnerFunc func(ctx context.Context, id string) (ownerID string, err error)

// Guard is the per-mutation ownership check binding an actor to the entity it
// is allowed to alter. Ownership projections are registered per entity kind,
// replacing ad hoc fetch-owner-and-compare code at every mutation entry point.
//
// The check is advisory: a race between Authorize and the following mutation
// is accepted, the store's own constraints are authoritative.
type Guard struct {
	owners map[Kind]OwnerFunc
}

func NewGuard() *Guard {
	return &Guard{owners: make(map[Kind]OwnerFunc)}
}

// Register binds an ownership projection to an entity kind.
func (g *Guard) Register(kind Kind, fn OwnerFunc) {
	g.owners[kind] = fn
}

// Authorize checks that actor owns the identified entity. It fails closed:
// unregistered kinds and lookup failures deny. A missing entity (or broken
// ownership chain) yields ErrNotFound; an ownership mismatch ErrForbidden.
func (g *Guard) Authorize(ctx context.Context, actor account.User, kind Kind, id string) error {
	fn, ok := g.owners[kind]
	if !ok {
		return errors.Wrapf(ErrForbidden, "no ownership projection for %q", kind)
	}
	ownerID, err := fn(ctx, id)
	if err != nil {
		return err
	}
	if ownerID != actor.ID {
		return ErrForbidden
	}
	return nil
}
