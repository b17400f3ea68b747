package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// fakeUserRepo is an in-memory identity directory mirroring the Postgres
// implementation's behavior: userId/email uniqueness, the first-admin
// auto-approval at create time, and idempotent back-reference appends.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int

	createErr error
	appendErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.users {
		if existing.UserID == user.UserID || existing.Email == user.Email {
			return apperrors.NewValidationError("userId or email already in use", nil)
		}
	}
	if user.Type == domain.UserTypeAdmin && !r.adminExistsLocked() {
		user.Status = domain.UserStatusApproved
	}
	r.seq++
	user.ID = fmt.Sprintf("u-%d", r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.users[user.UserID] = &stored
	return nil
}

func (r *fakeUserRepo) adminExistsLocked() bool {
	for _, u := range r.users {
		if u.Type == domain.UserTypeAdmin {
			return true
		}
	}
	return false
}

func (r *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.UserID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	stored := *user
	r.users[user.UserID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.User
	for _, user := range r.users {
		if filter.Type != nil && user.Type != *filter.Type {
			continue
		}
		if filter.Status != nil && user.Status != *filter.Status {
			continue
		}
		result = append(result, *user)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeUserRepo) FindAssignableEngineer(ctx context.Context) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.IsAssignable() {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) AppendTicketCreated(ctx context.Context, userID, ticketID string) error {
	return r.appendTo(userID, ticketID, func(u *domain.User) *[]string { return &u.TicketsCreated })
}

func (r *fakeUserRepo) AppendTicketAssigned(ctx context.Context, userID, ticketID string) error {
	return r.appendTo(userID, ticketID, func(u *domain.User) *[]string { return &u.TicketsAssigned })
}

func (r *fakeUserRepo) appendTo(userID, ticketID string, field func(*domain.User) *[]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	user, ok := r.users[userID]
	if !ok {
		return nil
	}
	seq := field(user)
	for _, id := range *seq {
		if id == ticketID {
			return nil
		}
	}
	*seq = append(*seq, ticketID)
	return nil
}

// fakeTicketRepo is an in-memory ticket store with the same filter and
// ordering semantics as the Postgres implementation.
type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
	order   []string
	seq     int

	createErr error
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	ticket.ID = fmt.Sprintf("t-%d", r.seq)
	ticket.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	ticket.UpdatedAt = ticket.CreatedAt
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	r.order = append(r.order, ticket.ID)
	return nil
}

func (r *fakeTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Ticket
	// newest first, matching the store's created_at DESC ordering
	for i := len(r.order) - 1; i >= 0; i-- {
		ticket := r.tickets[r.order[i]]
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		if filter.Assignee != nil && ticket.Assignee != *filter.Assignee {
			continue
		}
		if filter.Reporter != nil && ticket.Reporter != *filter.Reporter {
			continue
		}
		result = append(result, *ticket)
	}
	return result, nil
}

func (r *fakeTicketRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tickets)
}

// fakeHistoryRepo records audit entries in order.
type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.TicketHistory
	seq     int
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{}
}

func (r *fakeHistoryRepo) Create(ctx context.Context, entry *domain.TicketHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	entry.ID = fmt.Sprintf("h-%d", r.seq)
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeHistoryRepo) ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.TicketHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.TicketHistory
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (r *fakeHistoryRepo) byType(changeType domain.TicketChangeType) []domain.TicketHistory {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.TicketHistory
	for _, entry := range r.entries {
		if entry.ChangeType == changeType {
			result = append(result, entry)
		}
	}
	return result
}

func seedUser(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, repo *fakeUserRepo, userID string, userType domain.UserType, status domain.UserStatus) *domain.User {
	t.Helper()
	user := &domain.User{
		UserID:       userID,
		Name:         "user " + userID,
		Email:        userID + "@example.com",
		PasswordHash: "hash",
		Type:         userType,
		Status:       status,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user %s: %v", userID, err)
	}
	// keep the requested status even when the first-admin rule fired
	user.Status = status
	if err := repo.Update(context.Background(), user); err != nil {
		t.Fatalf("reset user status %s: %v", userID, err)
	}
	return user
}

// fakeTicketCache is an in-memory ticket cache. Entries are stored as
// copies so a cached ticket stays stale until invalidated, matching the
// Redis-backed behavior.
type fakeTicketCache struct {
	mu      sync.Mutex
	entries map[string]domain.Ticket

	getErr error
}

func newFakeTicketCache() *fakeTicketCache {
	return &fakeTicketCache{entries: make(map[string]domain.Ticket)}
}

func (c *fakeTicketCache) Get(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	entry, ok := c.entries[ticketID]
	if !ok {
		return nil, nil
	}
	copied := entry
	return &copied, nil
}

func (c *fakeTicketCache) Set(ctx context.Context, ticket *domain.Ticket) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[ticket.ID] = *ticket
	return nil
}

func (c *fakeTicketCache) Invalidate(ctx context.Context, ticketID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, ticketID)
	return nil
}

func (c *fakeTicketCache) contains(ticketID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[ticketID]
	return ok
}
