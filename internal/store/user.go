package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/careerpilot/internal/apperr"
)

type userRepo struct {
	s *Store
}

// PlaceholderUser builds the row created when a user is first seen through
// an authenticated request and no profile exists yet.
func PlaceholderUser(id string) User {
	return User{
		ID:       id,
		Email:    fmt.Sprintf("temp_%s@placeholder.com", id),
		FullName: "New User",
	}
}

func (r *userRepo) EnsureUser(ctx context.Context, u User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	q, args := r.s.builder().Insert("users").
		Columns("id", "email", "full_name", "created_at").
		Values(u.ID, u.Email, u.FullName, u.CreatedAt).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
		Query()
	if _, err := r.s.exec(ctx, q, args); err != nil {
		return apperr.Persistence("ensure user", err)
	}
	return nil
}

func (r *userRepo) GetUser(ctx context.Context, id string) (*User, error) {
	b := r.s.builder()
	q, args := b.Select("id", "email", "full_name", "created_at").
		From(b.Table("users")).
		Where(entsql.EQ("id", id)).
		Query()

	var u User
	if err := r.s.queryRow(ctx, q, args, &u.ID, &u.Email, &u.FullName, &u.CreatedAt); err != nil {
		return nil, apperr.Persistence("get user", err)
	}
	return &u, nil
}
