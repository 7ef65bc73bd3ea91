package postgres

import (
	"context"

	"github.com/google/uuid"

	"business-service/internal/rbac"
	apperrors "business-service/pkg/errors"
)

// UserRepository reads and updates the role column of the users table.
type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

// GetRole returns the stored role for a user. A missing user is reported as
// apperrors.ErrNotFound.
func (r *UserRepository) GetRole(ctx context.Context, userID uuid.UUID) (rbac.Role, error) {
	query := `
		SELECT role
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`

	var role string
	err := r.db.QueryRow(ctx, query, userID).Scan(&role)
	if err != nil {
		if isNoRows(err) {
			return "", apperrors.NotFound(errUserNotFound)
		}
		return "", errFailedGetUserRole(err)
	}

	return rbac.Role(role), nil
}

// UpdateRole changes a user's role. The caller is expected to have checked
// the role against the registry; the users_role_check constraint backs it up.
func (r *UserRepository) UpdateRole(ctx context.Context, userID uuid.UUID, role rbac.Role) error {
	query := `
		UPDATE users
		SET role = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := r.db.Exec(ctx, query, userID, string(role))
	if err != nil {
		if isCheckViolation(err) {
			return apperrors.BadRequest("role is not allowed")
		}
		return errFailedUpdateUserRole(err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(errUserNotFound)
	}

	return nil
}
