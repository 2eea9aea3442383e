package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"medivault/internal/domain/notifications"
)

type notificationRepo struct {
	mu    sync.RWMutex
	items []notifications.Notification
}

func NewNotificationRepo() notifications.Repository {
	return &notificationRepo{}
}

func (r *notificationRepo) Create(ctx context.Context, n notifications.Notification) error {
	if n.ID == "" {
		return errors.New("notification id required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, n)
	return nil
}

func (r *notificationRepo) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]notifications.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]notifications.Notification, 0)
	for _, n := range r.items {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *notificationRepo) CountUnread(ctx context.Context, recipientID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, n := range r.items {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, recipientID string, ids []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	changed := 0
	for i, n := range r.items {
		if n.RecipientID != recipientID || n.IsRead {
			continue
		}
		if len(want) > 0 {
			if _, ok := want[n.ID]; !ok {
				continue
			}
		}
		r.items[i].IsRead = true
		changed++
	}
	return changed, nil
}
