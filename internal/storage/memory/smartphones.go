package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SFU-teamproject/Smartbuy/internal/apperrors"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/smartphone"
)

func (m *Memory) GetSmartphone(ctx context.Context, id int64) (smartphone.Smartphone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.smartphones[id]
	if !ok {
		return smartphone.Smartphone{}, fmt.Errorf("smartphone %d: %w", id, apperrors.ErrNotFound)
	}
	return s, nil
}

func (m *Memory) GetSmartphones(ctx context.Context) ([]smartphone.Smartphone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]smartphone.Smartphone, 0, len(m.smartphones))
	for _, s := range m.smartphones {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetSmartphonesByIDs(ctx context.Context, ids []int64) ([]smartphone.Smartphone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]smartphone.Smartphone, 0, len(ids))
	for _, id := range ids {
		if s, ok := m.smartphones[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}
