package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventease/eventease-api/internal/domain"
	"github.com/eventease/eventease-api/internal/repository"
)

type fakeNotificationRepo struct {
	rows   map[uint]domain.Notification
	nextID uint
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{rows: map[uint]domain.Notification{}, nextID: 1}
}

func (f *fakeNotificationRepo) Create(_ context.Context, notification domain.Notification) (domain.Notification, error) {
	notification.ID = f.nextID
	f.nextID++
	f.rows[notification.ID] = notification

	return notification, nil
}

func (f *fakeNotificationRepo) CreateBatch(ctx context.Context, notifications []domain.Notification) error {
	for _, n := range notifications {
		if _, err := f.Create(ctx, n); err != nil {
			return err
		}
	}

	return nil
}

func (f *fakeNotificationRepo) FindByIDAndUser(_ context.Context, id, userID uint) (domain.Notification, error) {
	notification, ok := f.rows[id]
	if !ok || notification.UserID != userID {
		return domain.Notification{}, repository.ErrNotificationNotFound
	}

	return notification, nil
}

func (f *fakeNotificationRepo) Update(_ context.Context, notification domain.Notification) (domain.Notification, error) {
	if _, ok := f.rows[notification.ID]; !ok {
		return domain.Notification{}, repository.ErrNotificationNotFound
	}
	f.rows[notification.ID] = notification

	return notification, nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uint, at time.Time) error {
	for id, n := range f.rows {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &at
			f.rows[id] = n
		}
	}

	return nil
}

func (f *fakeNotificationRepo) Delete(_ context.Context, id, userID uint) error {
	notification, ok := f.rows[id]
	if !ok || notification.UserID != userID {
		return repository.ErrNotificationNotFound
	}
	delete(f.rows, id)

	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID uint, isRead *bool, offset, limit int) ([]domain.Notification, int64, error) {
	var out []domain.Notification
	for _, n := range f.rows {
		if n.UserID != userID {
			continue
		}
		if isRead != nil && n.IsRead != *isRead {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return paginate(out, offset, limit), int64(len(out)), nil
}

func (f *fakeNotificationRepo) CountUnreadByUser(_ context.Context, userID uint) (int64, error) {
	var n int64
	for _, row := range f.rows {
		if row.UserID == userID && !row.IsRead {
			n++
		}
	}

	return n, nil
}

func (f *fakeNotificationRepo) CountByUser(_ context.Context, userID uint) (int64, error) {
	var n int64
	for _, row := range f.rows {
		if row.UserID == userID {
			n++
		}
	}

	return n, nil
}

func (f *fakeNotificationRepo) StatsByUser(_ context.Context, userID uint) ([]repository.KindBreakdown, error) {
	counts := map[domain.NotificationKind]*repository.KindBreakdown{}
	for _, row := range f.rows {
		if row.UserID != userID {
			continue
		}
		entry, ok := counts[row.Kind]
		if !ok {
			entry = &repository.KindBreakdown{Kind: string(row.Kind)}
			counts[row.Kind] = entry
		}
		entry.Count++
		if !row.IsRead {
			entry.UnreadCount++
		}
	}

	out := make([]repository.KindBreakdown, 0, len(counts))
	for _, entry := range counts {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })

	return out, nil
}

func TestNotificationService_Notify(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo)

	created, err := svc.Notify(context.Background(), 5, domain.EventReminderTemplate{EventTitle: "Hack Night", DaysLeft: 3}, uintPtr(7), nil)
	require.NoError(t, err)
	assert.Equal(t, "Event Reminder", created.Title)
	assert.Equal(t, `Don't forget! "Hack Night" is coming up in 3 days. Make sure you're prepared!`, created.Message)
	assert.Equal(t, domain.KindEventReminder, created.Kind)
	require.NotNil(t, created.RelatedEventID)
	assert.Equal(t, uint(7), *created.RelatedEventID)
	assert.False(t, created.IsRead)
}

func TestNotificationService_NotifyMany(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo)

	require.NoError(t, svc.NotifyMany(context.Background(), nil, domain.EventDeletedTemplate{EventTitle: "Hack Night"}, nil))
	assert.Empty(t, repo.rows)

	require.NoError(t, svc.NotifyMany(context.Background(), []uint{5, 6}, domain.EventDeletedTemplate{EventTitle: "Hack Night"}, uintPtr(7)))
	assert.Len(t, repo.rows, 2)

	page, err := svc.GetMyNotifications(context.Background(), 6, nil, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)
	assert.Equal(t, "Event Cancelled", page.Notifications[0].Title)
}

func TestNotificationService_ReadState(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo)

	first, err := svc.Notify(context.Background(), 5, domain.EventRegistrationTemplate{EventTitle: "A"}, nil, nil)
	require.NoError(t, err)
	_, err = svc.Notify(context.Background(), 5, domain.EventRegistrationTemplate{EventTitle: "B"}, nil, nil)
	require.NoError(t, err)
	other, err := svc.Notify(context.Background(), 6, domain.EventRegistrationTemplate{EventTitle: "C"}, nil, nil)
	require.NoError(t, err)

	t.Run("unread counter", func(t *testing.T) {
		page, err := svc.GetMyNotifications(context.Background(), 5, nil, 0, 10)
		require.NoError(t, err)
		assert.Len(t, page.Notifications, 2)
		assert.Equal(t, int64(2), page.UnreadCount)
	})

	t.Run("mark one read", func(t *testing.T) {
		updated, err := svc.MarkRead(context.Background(), first.ID, 5)
		require.NoError(t, err)
		assert.True(t, updated.IsRead)
		assert.NotNil(t, updated.ReadAt)

		page, err := svc.GetMyNotifications(context.Background(), 5, nil, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.UnreadCount)
	})

	t.Run("cannot touch another user's notification", func(t *testing.T) {
		_, err := svc.MarkRead(context.Background(), other.ID, 5)
		assert.True(t, errors.Is(err, ErrNotificationNotFound))

		err = svc.Delete(context.Background(), other.ID, 5)
		assert.True(t, errors.Is(err, ErrNotificationNotFound))
	})

	t.Run("read filter", func(t *testing.T) {
		unread := false
		page, err := svc.GetMyNotifications(context.Background(), 5, &unread, 0, 10)
		require.NoError(t, err)
		assert.Len(t, page.Notifications, 1)
	})

	t.Run("mark all read", func(t *testing.T) {
		require.NoError(t, svc.MarkAllRead(context.Background(), 5))

		page, err := svc.GetMyNotifications(context.Background(), 5, nil, 0, 10)
		require.NoError(t, err)
		assert.Zero(t, page.UnreadCount)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(context.Background(), first.ID, 5))
		err := svc.Delete(context.Background(), first.ID, 5)
		assert.True(t, errors.Is(err, ErrNotificationNotFound))
	})
}

func TestNotificationService_GetStats(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo)

	reg, err := svc.Notify(context.Background(), 5, domain.EventRegistrationTemplate{EventTitle: "A"}, nil, nil)
	require.NoError(t, err)
	_, err = svc.Notify(context.Background(), 5, domain.EventRegistrationTemplate{EventTitle: "B"}, nil, nil)
	require.NoError(t, err)
	_, err = svc.Notify(context.Background(), 5, domain.EventReminderTemplate{EventTitle: "A", DaysLeft: 3}, nil, nil)
	require.NoError(t, err)

	_, err = svc.MarkRead(context.Background(), reg.ID, 5)
	require.NoError(t, err)

	stats, err := svc.GetStats(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Unread)

	require.Len(t, stats.KindBreakdown, 2)
	assert.Equal(t, string(domain.KindEventRegistration), stats.KindBreakdown[0].Kind)
	assert.Equal(t, int64(2), stats.KindBreakdown[0].Count)
	assert.Equal(t, int64(1), stats.KindBreakdown[0].UnreadCount)
	assert.Equal(t, string(domain.KindEventReminder), stats.KindBreakdown[1].Kind)
}
