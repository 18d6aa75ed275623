package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/homenotes/homenotes/internal/core/domain"
	"github.com/homenotes/homenotes/internal/core/ports"
)

// RoleSeeder installs the fixed role table at deployment time.
type RoleSeeder struct {
	repo   ports.RoleRepository
	logger zerolog.Logger
}

func NewRoleSeeder(repo ports.RoleRepository, logger zerolog.Logger) *RoleSeeder {
	return &RoleSeeder{repo: repo, logger: logger}
}

// SeedRoles upserts the three fixed roles by name: existing rows are reset
// to the exact permission set, missing ones are created, and only the "User"
// role ends up marked default. All three are persisted in one transaction,
// so re-running is safe and never creates duplicates.
func (s *RoleSeeder) SeedRoles(ctx context.Context) error {
	roles := make([]*domain.Role, 0, 3)
	for _, name := range domain.SeededRoleNames() {
		role, err := s.repo.FindByName(ctx, name)
		if errors.Is(err, domain.ErrRoleNotFound) {
			role = &domain.Role{Name: name}
		} else if err != nil {
			return err
		}

		role.ResetPermissions()
		for _, p := range domain.PermissionsFor(name) {
			role.AddPermission(p)
		}
		role.Default = name == domain.DefaultRoleName
		roles = append(roles, role)
	}

	if err := s.repo.SaveAll(ctx, roles); err != nil {
		return err
	}

	s.logger.Info().Int("roles", len(roles)).Msg("roles seeded")
	return nil
}
