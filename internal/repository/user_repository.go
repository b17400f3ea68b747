package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// UserFilter defines query params for user listing.
type UserFilter struct {
	Type   *domain.UserType
	Status *domain.UserStatus
	Limit  int
	Offset int
}

// UserRepository is the identity directory: persistence access for all
// accounts keyed by their stable userId.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByUserID(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	FindAssignableEngineer(ctx context.Context) (*domain.User, error)
	AppendTicketCreated(ctx context.Context, userID, ticketID string) error
	AppendTicketAssigned(ctx context.Context, userID, ticketID string) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

// Create inserts the user. The first-admin rule is applied inside the
// INSERT itself so the existence check and the write happen in a single
// statement: when no ADMIN row exists yet and the new row is an ADMIN, the
// stored status is forced to APPROVED regardless of the supplied default.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (user_id, name, email, password_hash, user_type, user_status)
        VALUES ($1, $2, $3, $4, $5,
            CASE WHEN $5 = 'ADMIN' AND NOT EXISTS (SELECT 1 FROM users WHERE user_type = 'ADMIN')
                 THEN 'APPROVED' ELSE $6 END)
        RETURNING id, user_status, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.UserID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Type,
		user.Status,
	).Scan(&user.ID, &user.Status, &user.CreatedAt, &user.UpdatedAt)
	return mapUniqueViolation(err)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, email=$2, password_hash=$3, user_type=$4, user_status=$5, updated_at=NOW()
        WHERE user_id=$6
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Type,
		user.Status,
		user.UserID,
	).Scan(&user.UpdatedAt)
	return mapUniqueViolation(err)
}

func (r *userRepository) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	return r.fetchSingle(ctx, userColumns+` FROM users WHERE user_id=$1`, userID)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.fetchSingle(ctx, userColumns+` FROM users WHERE email=$1`, email)
}

const userColumns = `
        SELECT id, user_id, name, email, password_hash, user_type, user_status,
               tickets_created, tickets_assigned, created_at, updated_at`

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.UserID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Type,
		&user.Status,
		&user.TicketsCreated,
		&user.TicketsAssigned,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]domain.User, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Type != nil {
		args = append(args, *filter.Type)
		clauses = append(clauses, fmt.Sprintf("user_type=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("user_status=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s FROM users WHERE %s ORDER BY created_at LIMIT %d OFFSET %d`,
		userColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

// FindAssignableEngineer returns one approved engineer. Which one is
// unspecified; callers must not rely on scan order.
func (r *userRepository) FindAssignableEngineer(ctx context.Context) (*domain.User, error) {
	const query = userColumns + `
        FROM users WHERE user_type=$1 AND user_status=$2 LIMIT 1`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, domain.UserTypeEngineer, domain.UserStatusApproved).Scan(
		&user.ID,
		&user.UserID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Type,
		&user.Status,
		&user.TicketsCreated,
		&user.TicketsAssigned,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

// AppendTicketCreated adds a ticket id to the user's created history. The
// append is skipped when the id is already present, so replays of the
// create saga cannot double-insert.
func (r *userRepository) AppendTicketCreated(ctx context.Context, userID, ticketID string) error {
	const query = `
        UPDATE users SET tickets_created = array_append(tickets_created, $2), updated_at=NOW()
        WHERE user_id=$1 AND NOT (tickets_created @> ARRAY[$2::text])`
	_, err := r.pool.Exec(ctx, query, userID, ticketID)
	return err
}

// AppendTicketAssigned adds a ticket id to the user's assignment history,
// with the same idempotency guarantee as AppendTicketCreated.
func (r *userRepository) AppendTicketAssigned(ctx context.Context, userID, ticketID string) error {
	const query = `
        UPDATE users SET tickets_assigned = array_append(tickets_assigned, $2), updated_at=NOW()
        WHERE user_id=$1 AND NOT (tickets_assigned @> ARRAY[$2::text])`
	_, err := r.pool.Exec(ctx, query, userID, ticketID)
	return err
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.UserID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Type,
			&user.Status,
			&user.TicketsCreated,
			&user.TicketsAssigned,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}

func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperrors.NewValidationError("userId or email already in use", map[string]any{
			"constraint": pgErr.ConstraintName,
		})
	}
	return err
}
