package repository

import (
	"context"

	"github.com/google/uuid"

	"business-service/internal/rbac"
)

// Repository interfaces used by auth and cli packages
// These are provider-side interfaces that concrete implementations must satisfy

type UserRoleRepository interface {
	GetRole(ctx context.Context, userID uuid.UUID) (rbac.Role, error)
	UpdateRole(ctx context.Context, userID uuid.UUID, role rbac.Role) error
}
