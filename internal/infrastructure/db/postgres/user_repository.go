package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"gorm.io/gorm"

	"github.com/homenotes/homenotes/internal/core/domain"
)

// uniqueViolation is the Postgres error code for unique constraint breaches.
const uniqueViolation = "23505"

// UserRepository persists users with gorm.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userRow struct {
	ID           int64   `gorm:"column:id;primaryKey"`
	Name         string  `gorm:"column:name"`
	Email        string  `gorm:"column:email"`
	PasswordHash *string `gorm:"column:password_hash"`
	RoleID       int64   `gorm:"column:role_id"`
}

func (userRow) TableName() string {
	return "users"
}

func (r userRow) toDomain() *domain.User {
	u := &domain.User{
		ID:     r.ID,
		Name:   r.Name,
		Email:  r.Email,
		RoleID: r.RoleID,
	}
	if r.PasswordHash != nil {
		u.PasswordHash = *r.PasswordHash
	}
	return u
}

func userToRow(u *domain.User) userRow {
	row := userRow{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		RoleID: u.RoleID,
	}
	if u.PasswordHash != "" {
		hash := u.PasswordHash
		row.PasswordHash = &hash
	}
	return row
}

func (r *UserRepository) FindByName(ctx context.Context, name string) (*domain.User, error) {
	return r.findOne(ctx, "name = ?", name)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	user := row.toDomain()
	if err := r.loadRole(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := userToRow(user)
	row.ID = 0
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := row.toDomain()
	created.Role = user.Role
	return created, nil
}

// loadRole fills in the user's role so permission checks work without a
// second round-trip at the call site.
func (r *UserRepository) loadRole(ctx context.Context, user *domain.User) error {
	var row roleRow
	if err := r.db.WithContext(ctx).Where("id = ?", user.RoleID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRoleNotFound
		}
		return fmt.Errorf("load role: %w", err)
	}
	user.Role = row.toDomain()
	return nil
}
