package service

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/decrypto-hq/decrypto-api/internal/core/domain"
)

// stubUserRepo is an in-memory ports.UserRepository shared by the service
// tests. Setting fail makes every call return that error, simulating a store
// outage.
type stubUserRepo struct {
	mu      sync.Mutex
	seq     int
	users   map[string]*domain.User // keyed by id
	creates int
	fail    error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	for _, existing := range r.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.creates++
	r.seq++
	stored := cloneUser(user)
	stored.ID = "user-" + strconv.Itoa(r.seq)
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, offset, limit int) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	ids := make([]string, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*domain.User, 0, limit)
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, cloneUser(r.users[id]))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	for id, existing := range r.users {
		if id != user.ID && (existing.Email == user.Email || existing.Username == user.Username) {
			return nil, domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) UpdatePasswordHash(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Active = false
	return nil
}

func (r *stubUserRepo) Leaderboard(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		if u.Active && u.Role == domain.RoleRegular {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QuestionNumber != out[j].QuestionNumber {
			return out[i].QuestionNumber > out[j].QuestionNumber
		}
		if !out[i].QuestionNumberUpdatedAt.Equal(out[j].QuestionNumberUpdatedAt) {
			return out[i].QuestionNumberUpdatedAt.Before(out[j].QuestionNumberUpdatedAt)
		}
		return out[i].Username < out[j].Username
	})
	return out, nil
}

// seed inserts a user directly, bypassing Create's duplicate checks.
func (r *stubUserRepo) seed(u *domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	stored := cloneUser(u)
	if stored.ID == "" {
		stored.ID = "user-" + strconv.Itoa(r.seq)
	}
	r.users[stored.ID] = stored
	return cloneUser(stored)
}

// stubResetStore remembers which reset tokens were consumed.
type stubResetStore struct {
	mu   sync.Mutex
	used map[string]bool
	fail error
}

func newStubResetStore() *stubResetStore {
	return &stubResetStore{used: make(map[string]bool)}
}

func (s *stubResetStore) MarkUsed(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return false, s.fail
	}
	if s.used[token] {
		return false, nil
	}
	s.used[token] = true
	return true, nil
}

// stubMailer captures the last reset token handed to it.
type stubMailer struct {
	mu        sync.Mutex
	lastTo    string
	lastToken string
	sends     int
}

func (m *stubMailer) SendPasswordReset(_ context.Context, to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastTo = to
	m.lastToken = token
	m.sends++
	return nil
}

// stubAudit collects recorded events synchronously.
type stubAudit struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (a *stubAudit) Record(event domain.AuthEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
}

func (a *stubAudit) kinds() []domain.AuthEventKind {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuthEventKind, 0, len(a.events))
	for _, ev := range a.events {
		out = append(out, ev.Kind)
	}
	return out
}
