package repository

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/wapio/backend/internal/model"
)

const userTable = "users"

var userColumns = []string{
	"id", "name", "email", "password_hash", "phone", "company",
	"role", "is_active", "last_login", "created_at", "updated_at",
}

// PgUserRepository is the PostgreSQL implementation of UserRepository.
type PgUserRepository struct {
	db Querier
}

// NewPgUserRepository creates a PgUserRepository over the given querier.
func NewPgUserRepository(db Querier) *PgUserRepository {
	return &PgUserRepository{db: db}
}

var _ UserRepository = (*PgUserRepository)(nil)

func (r *PgUserRepository) Create(ctx context.Context, user *model.User) error {
	query, args, err := psql.
		Insert(userTable).
		Columns("name", "email", "password_hash", "phone", "company", "role").
		Values(user.Name, user.Email, user.PasswordHash, user.Phone, user.Company, user.Role).
		Suffix("RETURNING id, is_active, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build user insert: %w", err)
	}

	err = r.db.QueryRow(ctx, query, args...).
		Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query, args, err := psql.
		Select(userColumns...).
		From(userTable).
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user get: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *PgUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query, args, err := psql.
		Select(userColumns...).
		From(userTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user get: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *PgUserRepository) getOne(ctx context.Context, query string, args []any) (*model.User, error) {
	var user model.User
	if err := pgxscan.Get(ctx, r.db, &user, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PgUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name, phone, company string) (*model.User, error) {
	query, args, err := psql.
		Update(userTable).
		Set("name", name).
		Set("phone", phone).
		Set("company", company).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user profile update: %w", err)
	}

	var user model.User
	if err := pgxscan.Get(ctx, r.db, &user, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PgUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query, args, err := psql.
		Update(userTable).
		Set("password_hash", passwordHash).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build user password update: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgUserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.
		Update(userTable).
		Set("last_login", sq.Expr("now()")).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build user last_login update: %w", err)
	}
	_, err = r.db.Exec(ctx, query, args...)
	return err
}
