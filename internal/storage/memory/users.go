package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/SFU-teamproject/Smartbuy/internal/apperrors"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/cart"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/user"
)

func (m *Memory) GetUser(ctx context.Context, id int64) (user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return user.User{}, fmt.Errorf("user %d: %w", id, apperrors.ErrNotFound)
	}
	return u, nil
}

func (m *Memory) GetUsers(ctx context.Context) ([]user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]user.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if strings.ToLower(u.Email) == email {
			return u, nil
		}
	}
	return user.User{}, fmt.Errorf("user %s: %w", email, apperrors.ErrNotFound)
}

func (m *Memory) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range m.users {
		if strings.ToLower(existing.Email) == email {
			return user.User{}, fmt.Errorf("user %s: %w", email, apperrors.ErrAlreadyExists)
		}
	}
	if u.Role == "" {
		u.Role = user.RoleUser
	}
	m.userSeq++
	u.ID = m.userSeq
	u.Email = email
	u.CreatedAt = now()
	u.Cart = nil

	m.cartSeq++
	crt := cart.Cart{ID: m.cartSeq, UserID: u.ID, CreatedAt: u.CreatedAt, UpdatedAt: u.CreatedAt}
	m.carts[crt.ID] = crt
	m.users[u.ID] = u

	u.Cart = &crt
	return u, nil
}

func (m *Memory) UpdateUserPassword(ctx context.Context, userID int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("user %d: %w", userID, apperrors.ErrNotFound)
	}
	u.Password = hash
	m.users[userID] = u
	return nil
}

func (m *Memory) CreateTmpPassword(ctx context.Context, tp user.TmpPassword) (user.TmpPassword, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tp.Email = strings.ToLower(strings.TrimSpace(tp.Email))
	m.tmpPasswords[tp.Email] = tp
	return tp, nil
}

func (m *Memory) GetTmpPassword(ctx context.Context, email string) (user.TmpPassword, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tp, ok := m.tmpPasswords[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return user.TmpPassword{}, fmt.Errorf("tmp password for %s: %w", email, apperrors.ErrNotFound)
	}
	return tp, nil
}

func (m *Memory) DeleteTmpPassword(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	if _, ok := m.tmpPasswords[email]; !ok {
		return fmt.Errorf("tmp password for %s: %w", email, apperrors.ErrNotFound)
	}
	delete(m.tmpPasswords, email)
	return nil
}
