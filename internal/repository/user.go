package repository

import (
	"context"
	"fmt"

	"github.com/eventease/eventease-api/internal/domain"
	"github.com/eventease/eventease-api/internal/repository/dao"
)

var (
	ErrUserEmailExists = dao.ErrUserEmailExists
	ErrUserNotFound    = dao.ErrUserNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	Update(ctx context.Context, user dao.User) (dao.User, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	List(ctx context.Context, search, role string, offset, limit int) ([]dao.User, int64, error)
	CountGroupedBy(ctx context.Context, column string) ([]dao.GroupCount, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, userToDAO(user))
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return userToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return userToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return userToDomain(found), nil
}

func (r *UserRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	updated, err := r.dao.Update(ctx, userToDAO(user))
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return userToDomain(updated), nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.dao.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	count, err := r.dao.CountByRole(ctx, role)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByRole -> %w", err)
	}

	return count, nil
}

func (r *UserRepository) List(ctx context.Context, search, role string, offset, limit int) ([]domain.User, int64, error) {
	found, total, err := r.dao.List(ctx, search, role, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.List -> %w", err)
	}

	users := make([]domain.User, 0, len(found))
	for _, u := range found {
		users = append(users, userToDomain(u))
	}

	return users, total, nil
}

// Demographic is a labelled bucket count over a user attribute.
type Demographic struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

func (r *UserRepository) Demographics(ctx context.Context, column string) ([]Demographic, error) {
	rows, err := r.dao.CountGroupedBy(ctx, column)
	if err != nil {
		return nil, fmt.Errorf("r.dao.CountGroupedBy -> %w", err)
	}

	demographics := make([]Demographic, 0, len(rows))
	for _, row := range rows {
		demographics = append(demographics, Demographic{Key: row.Key, Count: row.Count})
	}

	return demographics, nil
}

func userToDomain(u dao.User) domain.User {
	return domain.User{
		ID:                     u.ID,
		Name:                   u.Name,
		Email:                  u.Email,
		Password:               u.Password,
		Role:                   u.Role,
		Age:                    u.Age,
		Gender:                 u.Gender,
		Phone:                  u.Phone,
		Department:             u.Department,
		Year:                   u.Year,
		Interests:              u.Interests,
		Bio:                    u.Bio,
		ProfileImage:           u.ProfileImage,
		IsBanned:               u.IsBanned,
		BannedBy:               u.BannedBy,
		BannedAt:               u.BannedAt,
		BannedReason:           u.BannedReason,
		PasswordToken:          u.PasswordToken,
		PasswordTokenExpiresAt: u.PasswordTokenExpiresAt,
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
	}
}

func userToDAO(u domain.User) dao.User {
	return dao.User{
		ID:                     u.ID,
		Name:                   u.Name,
		Email:                  u.Email,
		Password:               u.Password,
		Role:                   u.Role,
		Age:                    u.Age,
		Gender:                 u.Gender,
		Phone:                  u.Phone,
		Department:             u.Department,
		Year:                   u.Year,
		Interests:              u.Interests,
		Bio:                    u.Bio,
		ProfileImage:           u.ProfileImage,
		IsBanned:               u.IsBanned,
		BannedBy:               u.BannedBy,
		BannedAt:               u.BannedAt,
		BannedReason:           u.BannedReason,
		PasswordToken:          u.PasswordToken,
		PasswordTokenExpiresAt: u.PasswordTokenExpiresAt,
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
	}
}
