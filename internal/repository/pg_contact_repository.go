package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/wapio/backend/internal/model"
)

const contactTable = "contact_submissions"

var contactColumns = []string{
	"id", "name", "email", "company", "message",
	"ip_address", "user_agent", "status", "created_at",
}

// psql is the shared statement builder using Postgres placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
type PgContactRepository struct {
	db Querier
}

// NewPgContactRepository creates a PgContactRepository over the given querier.
func NewPgContactRepository(db Querier) *PgContactRepository {
	return &PgContactRepository{db: db}
}

var _ ContactRepository = (*PgContactRepository)(nil)

// Insert persists a new submission. ID and CreatedAt come back from the
// database so identity and clock stay in one place.
func (r *PgContactRepository) Insert(ctx context.Context, sub *model.ContactSubmission) error {
	query, args, err := psql.
		Insert(contactTable).
		Columns("name", "email", "company", "message", "ip_address", "user_agent", "status").
		Values(sub.Name, sub.Email, sub.Company, sub.Message, sub.IPAddress, sub.UserAgent, sub.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build contact insert: %w", err)
	}
	return r.db.QueryRow(ctx, query, args...).Scan(&sub.ID, &sub.CreatedAt)
}

// List returns one page ordered by created_at descending, plus the total
// count matching the same predicate.
func (r *PgContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactSubmission, int, error) {
	pred := contactListPredicate(opts)

	countSQL, countArgs, err := psql.
		Select("COUNT(*)").
		From(contactTable).
		Where(pred).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build contact count: %w", err)
	}
	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (opts.Page - 1) * opts.Limit
	query, args, err := psql.
		Select(contactColumns...).
		From(contactTable).
		Where(pred).
		OrderBy("created_at DESC").
		Limit(uint64(opts.Limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build contact list: %w", err)
	}

	var subs []*model.ContactSubmission
	if err := pgxscan.Select(ctx, r.db, &subs, query, args...); err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// contactListPredicate translates filter options into a WHERE clause. The
// free-text filter matches name, email and company case-insensitively.
func contactListPredicate(opts model.ContactListOptions) sq.And {
	pred := sq.And{}
	if opts.Status != "" {
		pred = append(pred, sq.Eq{"status": opts.Status})
	}
	if s := strings.TrimSpace(opts.Search); s != "" {
		pattern := "%" + escapeLike(s) + "%"
		pred = append(pred, sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"email": pattern},
			sq.ILike{"company": pattern},
		})
	}
	return pred
}

// escapeLike neutralizes LIKE metacharacters in user-supplied search text so
// "100%" searches for the literal string.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// GetByID returns a single submission or ErrNotFound.
func (r *PgContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ContactSubmission, error) {
	query, args, err := psql.
		Select(contactColumns...).
		From(contactTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build contact get: %w", err)
	}

	var sub model.ContactSubmission
	if err := pgxscan.Get(ctx, r.db, &sub, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// UpdateStatus replaces the status in a single-row UPDATE. Concurrent calls
// against the same row resolve last-write-wins at the database.
func (r *PgContactRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ContactStatus) (*model.ContactSubmission, error) {
	query, args, err := psql.
		Update(contactTable).
		Set("status", status).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(contactColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build contact status update: %w", err)
	}

	var sub model.ContactSubmission
	if err := pgxscan.Get(ctx, r.db, &sub, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// Delete hard-deletes one submission. Deleting an absent id yields
// ErrNotFound, so a second delete of the same id fails cleanly.
func (r *PgContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.
		Delete(contactTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build contact delete: %w", err)
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

// Stats recomputes the summary from scratch on every call: one GROUP BY for
// the per-status counts (absent statuses simply don't appear) and one count
// of submissions created at or after since.
func (r *PgContactRepository) Stats(ctx context.Context, since time.Time) (*model.ContactStats, error) {
	groupSQL, groupArgs, err := psql.
		Select("status", "COUNT(*)").
		From(contactTable).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build contact stats: %w", err)
	}

	rows, err := r.db.Query(ctx, groupSQL, groupArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &model.ContactStats{ByStatus: make(map[model.ContactStatus]int)}
	for rows.Next() {
		var (
			status model.ContactStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	todaySQL, todayArgs, err := psql.
		Select("COUNT(*)").
		From(contactTable).
		Where(sq.GtOrEq{"created_at": since}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build contact today count: %w", err)
	}
	if err := r.db.QueryRow(ctx, todaySQL, todayArgs...).Scan(&stats.Today); err != nil {
		return nil, err
	}
	return stats, nil
}
