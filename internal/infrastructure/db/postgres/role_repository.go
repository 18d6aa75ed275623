package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/homenotes/homenotes/internal/core/domain"
)

// RoleRepository persists roles with gorm.
type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// roleRow is the database shape of a role, kept separate from the domain
// type so column naming stays a persistence concern.
type roleRow struct {
	ID          int64  `gorm:"column:id;primaryKey"`
	Name        string `gorm:"column:name"`
	Default     bool   `gorm:"column:default"`
	Permissions int    `gorm:"column:permissions"`
}

func (roleRow) TableName() string {
	return "roles"
}

func (r roleRow) toDomain() *domain.Role {
	return &domain.Role{
		ID:          r.ID,
		Name:        r.Name,
		Default:     r.Default,
		Permissions: domain.Permission(r.Permissions),
	}
}

func roleToRow(role *domain.Role) roleRow {
	return roleRow{
		ID:          role.ID,
		Name:        role.Name,
		Default:     role.Default,
		Permissions: int(role.Permissions),
	}
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var row roleRow
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return row.toDomain(), nil
}

func (r *RoleRepository) FindDefault(ctx context.Context) (*domain.Role, error) {
	var row roleRow
	if err := r.db.WithContext(ctx).Where(`"default" = ?`, true).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find default role: %w", err)
	}
	return row.toDomain(), nil
}

// SaveAll upserts the given roles in a single transaction and writes the
// generated ids back into the domain values.
func (r *RoleRepository) SaveAll(ctx context.Context, roles []*domain.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, role := range roles {
			row := roleToRow(role)
			if err := tx.Save(&row).Error; err != nil {
				return fmt.Errorf("save role %s: %w", role.Name, err)
			}
			role.ID = row.ID
		}
		return nil
	})
}
