package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SFU-teamproject/Smartbuy/internal/apperrors"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/review"
)

func (m *Memory) GetReview(ctx context.Context, id int64) (review.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rv, ok := m.reviews[id]
	if !ok {
		return review.Review{}, fmt.Errorf("review %d: %w", id, apperrors.ErrNotFound)
	}
	return rv, nil
}

func (m *Memory) GetReviews(ctx context.Context, smartphoneID int64) ([]review.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.smartphones[smartphoneID]; !ok {
		return nil, fmt.Errorf("smartphone %d: %w", smartphoneID, apperrors.ErrNotFound)
	}
	out := []review.Review{}
	for _, rv := range m.reviews {
		if rv.SmartphoneID == smartphoneID {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) CreateReview(ctx context.Context, rv review.Review) (review.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.smartphones[rv.SmartphoneID]
	if !ok {
		return review.Review{}, fmt.Errorf("smartphone %d: %w", rv.SmartphoneID, apperrors.ErrNotFound)
	}
	for _, existing := range m.reviews {
		if existing.SmartphoneID == rv.SmartphoneID && existing.UserID == rv.UserID {
			return review.Review{}, fmt.Errorf("review by user %d for smartphone %d: %w",
				rv.UserID, rv.SmartphoneID, apperrors.ErrAlreadyExists)
		}
	}
	m.reviewSeq++
	rv.ID = m.reviewSeq
	rv.CreatedAt = now()
	rv.UpdatedAt = rv.CreatedAt
	m.reviews[rv.ID] = rv

	s.RatingsSum += rv.Rating
	s.RatingsCount++
	m.smartphones[s.ID] = s
	return rv, nil
}

func (m *Memory) UpdateReview(ctx context.Context, rv review.Review) (review.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.reviews[rv.ID]
	if !ok {
		return review.Review{}, fmt.Errorf("review %d: %w", rv.ID, apperrors.ErrNotFound)
	}
	if s, ok := m.smartphones[existing.SmartphoneID]; ok {
		s.RatingsSum += rv.Rating - existing.Rating
		m.smartphones[s.ID] = s
	}
	existing.Rating = rv.Rating
	existing.Comment = rv.Comment
	existing.UpdatedAt = now()
	m.reviews[existing.ID] = existing
	return existing, nil
}

func (m *Memory) DeleteReview(ctx context.Context, id int64) (review.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.reviews[id]
	if !ok {
		return review.Review{}, fmt.Errorf("review %d: %w", id, apperrors.ErrNotFound)
	}
	if s, ok := m.smartphones[existing.SmartphoneID]; ok {
		s.RatingsSum -= existing.Rating
		s.RatingsCount--
		m.smartphones[s.ID] = s
	}
	delete(m.reviews, id)
	return existing, nil
}
