package service

import (
	"context"
	"sort"
	"time"

	"github.com/eventease/eventease-api/internal/domain"
	"github.com/eventease/eventease-api/internal/repository"
)

// The fakes below back the service tests with in-memory state. They
// return the repository sentinels the real gorm-backed types return, so
// errors.Is checks behave the same.

type fakeUserRepo struct {
	users  map[uint]domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]domain.User{}, nextID: 1}
}

func (f *fakeUserRepo) add(user domain.User) domain.User {
	if user.ID == 0 {
		user.ID = f.nextID
		f.nextID++
	} else if user.ID >= f.nextID {
		f.nextID = user.ID + 1
	}
	f.users[user.ID] = user

	return user
}

func (f *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	for _, u := range f.users {
		if u.Email == user.Email {
			return domain.User{}, repository.ErrUserEmailExists
		}
	}

	return f.add(user), nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, user domain.User) (domain.User, error) {
	if _, ok := f.users[user.ID]; !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	f.users[user.ID] = user

	return user, nil
}

func (f *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var n int64
	for _, u := range f.users {
		if u.Role == role {
			n++
		}
	}

	return n, nil
}

func (f *fakeUserRepo) List(_ context.Context, search, role string, offset, limit int) ([]domain.User, int64, error) {
	var out []domain.User
	for _, u := range f.users {
		if role != "" && u.Role != role {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return paginate(out, offset, limit), int64(len(out)), nil
}

func (f *fakeUserRepo) Demographics(_ context.Context, column string) ([]repository.Demographic, error) {
	return nil, nil
}

type fakeEventRepo struct {
	events map[uint]domain.Event
	nextID uint
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[uint]domain.Event{}, nextID: 1}
}

func (f *fakeEventRepo) add(event domain.Event) domain.Event {
	if event.ID == 0 {
		event.ID = f.nextID
		f.nextID++
	} else if event.ID >= f.nextID {
		f.nextID = event.ID + 1
	}
	f.events[event.ID] = event

	return event
}

func (f *fakeEventRepo) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	return f.add(event), nil
}

func (f *fakeEventRepo) FindByID(_ context.Context, id uint) (domain.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}

	return event, nil
}

func (f *fakeEventRepo) Update(_ context.Context, event domain.Event) (domain.Event, error) {
	if _, ok := f.events[event.ID]; !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}
	f.events[event.ID] = event

	return event, nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.events[id]; !ok {
		return repository.ErrEventNotFound
	}
	delete(f.events, id)

	return nil
}

func (f *fakeEventRepo) all() []domain.Event {
	out := make([]domain.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

func (f *fakeEventRepo) List(_ context.Context, q repository.ListEventsQuery) ([]domain.Event, int64, error) {
	var out []domain.Event
	for _, e := range f.all() {
		if q.Category != "" && e.Category != q.Category {
			continue
		}
		if q.Status != "" && e.Status != q.Status {
			continue
		}
		out = append(out, e)
	}

	return paginate(out, q.Offset, q.Limit), int64(len(out)), nil
}

func (f *fakeEventRepo) ListByOrganiser(_ context.Context, organiserID uint, offset, limit int) ([]domain.Event, int64, error) {
	var out []domain.Event
	for _, e := range f.all() {
		if e.HasOrganiser(organiserID) {
			out = append(out, e)
		}
	}

	return paginate(out, offset, limit), int64(len(out)), nil
}

func (f *fakeEventRepo) ListByCreator(_ context.Context, creatorID uint, offset, limit int) ([]domain.Event, int64, error) {
	var out []domain.Event
	for _, e := range f.all() {
		if e.CreatedByID == creatorID {
			out = append(out, e)
		}
	}

	return paginate(out, offset, limit), int64(len(out)), nil
}

func (f *fakeEventRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.events)), nil
}

func (f *fakeEventRepo) CountByOrganiser(_ context.Context, organiserID uint) (int64, error) {
	var n int64
	for _, e := range f.events {
		if e.HasOrganiser(organiserID) {
			n++
		}
	}

	return n, nil
}

func (f *fakeEventRepo) AppendOrganiser(_ context.Context, eventID uint, organiser domain.User) error {
	event, ok := f.events[eventID]
	if !ok {
		return repository.ErrEventNotFound
	}
	event.AssignedOrganisers = append(event.AssignedOrganisers, organiser)
	f.events[eventID] = event

	return nil
}

func (f *fakeEventRepo) RemoveOrganiser(_ context.Context, eventID uint, organiser domain.User) error {
	event, ok := f.events[eventID]
	if !ok {
		return repository.ErrEventNotFound
	}

	kept := event.AssignedOrganisers[:0]
	for _, o := range event.AssignedOrganisers {
		if o.ID != organiser.ID {
			kept = append(kept, o)
		}
	}
	event.AssignedOrganisers = kept
	f.events[eventID] = event

	return nil
}

func (f *fakeEventRepo) FindAssignable(_ context.Context, ids []uint) ([]domain.Event, error) {
	var out []domain.Event
	for _, id := range ids {
		if e, ok := f.events[id]; ok && e.Status != domain.EventStatusCancelled {
			out = append(out, e)
		}
	}

	return out, nil
}

func (f *fakeEventRepo) FindPublishedStartingBetween(_ context.Context, from, to time.Time) ([]domain.Event, error) {
	var out []domain.Event
	for _, e := range f.all() {
		if e.IsPublished() && !e.StartDate.Before(from) && !e.StartDate.After(to) {
			out = append(out, e)
		}
	}

	return out, nil
}

type fakeAttendeeRepo struct {
	rows   map[uint]domain.Attendee
	nextID uint
}

func newFakeAttendeeRepo() *fakeAttendeeRepo {
	return &fakeAttendeeRepo{rows: map[uint]domain.Attendee{}, nextID: 1}
}

func (f *fakeAttendeeRepo) add(attendee domain.Attendee) domain.Attendee {
	if attendee.ID == 0 {
		attendee.ID = f.nextID
		f.nextID++
	} else if attendee.ID >= f.nextID {
		f.nextID = attendee.ID + 1
	}
	f.rows[attendee.ID] = attendee

	return attendee
}

func (f *fakeAttendeeRepo) Create(_ context.Context, attendee domain.Attendee) (domain.Attendee, error) {
	for _, a := range f.rows {
		if a.UserID == attendee.UserID && a.EventID == attendee.EventID {
			return domain.Attendee{}, repository.ErrAttendeeExists
		}
	}

	return f.add(attendee), nil
}

func (f *fakeAttendeeRepo) FindByID(_ context.Context, id uint) (domain.Attendee, error) {
	attendee, ok := f.rows[id]
	if !ok {
		return domain.Attendee{}, repository.ErrAttendeeNotFound
	}

	return attendee, nil
}

func (f *fakeAttendeeRepo) FindByUserAndEvent(_ context.Context, userID, eventID uint) (domain.Attendee, error) {
	for _, a := range f.rows {
		if a.UserID == userID && a.EventID == eventID {
			return a, nil
		}
	}

	return domain.Attendee{}, repository.ErrAttendeeNotFound
}

func (f *fakeAttendeeRepo) Update(_ context.Context, attendee domain.Attendee) (domain.Attendee, error) {
	if _, ok := f.rows[attendee.ID]; !ok {
		return domain.Attendee{}, repository.ErrAttendeeNotFound
	}
	f.rows[attendee.ID] = attendee

	return attendee, nil
}

func (f *fakeAttendeeRepo) CountActiveByEvent(_ context.Context, eventID uint) (int64, error) {
	var n int64
	for _, a := range f.rows {
		if a.EventID == eventID && a.IsActive() {
			n++
		}
	}

	return n, nil
}

func (f *fakeAttendeeRepo) ListByEvent(_ context.Context, eventID uint, status string, offset, limit int) ([]domain.Attendee, int64, error) {
	var out []domain.Attendee
	for _, a := range f.sorted() {
		if a.EventID != eventID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, a)
	}

	return paginate(out, offset, limit), int64(len(out)), nil
}

func (f *fakeAttendeeRepo) ListByUser(_ context.Context, userID uint, status string, offset, limit int) ([]domain.Attendee, int64, error) {
	var out []domain.Attendee
	for _, a := range f.sorted() {
		if a.UserID != userID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, a)
	}

	return paginate(out, offset, limit), int64(len(out)), nil
}

func (f *fakeAttendeeRepo) sorted() []domain.Attendee {
	out := make([]domain.Attendee, 0, len(f.rows))
	for _, a := range f.rows {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

func (f *fakeAttendeeRepo) DistinctUserIDsByEvent(_ context.Context, eventID uint) ([]uint, error) {
	var out []uint
	for _, a := range f.sorted() {
		if a.EventID == eventID {
			out = append(out, a.UserID)
		}
	}

	return out, nil
}

func (f *fakeAttendeeRepo) DistinctActiveUserIDsByEvent(_ context.Context, eventID uint) ([]uint, error) {
	var out []uint
	for _, a := range f.sorted() {
		if a.EventID == eventID && a.IsActive() {
			out = append(out, a.UserID)
		}
	}

	return out, nil
}

func (f *fakeAttendeeRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.rows)), nil
}

func (f *fakeAttendeeRepo) StatusBreakdownByEvent(_ context.Context, eventID uint) ([]repository.StatusBreakdown, error) {
	counts := map[string]int64{}
	for _, a := range f.rows {
		if a.EventID == eventID {
			counts[a.Status]++
		}
	}

	var out []repository.StatusBreakdown
	for _, status := range domain.AttendeeStatuses {
		if counts[status] > 0 {
			out = append(out, repository.StatusBreakdown{Status: status, Count: counts[status]})
		}
	}

	return out, nil
}

func (f *fakeAttendeeRepo) CountUpcomingByUser(_ context.Context, userID uint, now time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeAttendeeRepo) CountByUserAndStatus(_ context.Context, userID uint, status string) (int64, error) {
	var n int64
	for _, a := range f.rows {
		if a.UserID == userID && a.Status == status {
			n++
		}
	}

	return n, nil
}

func (f *fakeAttendeeRepo) CountByOrganiserEvents(_ context.Context, organiserID uint) (int64, error) {
	return 0, nil
}

type fakeSponsorshipRepo struct {
	rows   map[uint]domain.Sponsorship
	nextID uint
}

func newFakeSponsorshipRepo() *fakeSponsorshipRepo {
	return &fakeSponsorshipRepo{rows: map[uint]domain.Sponsorship{}, nextID: 1}
}

func (f *fakeSponsorshipRepo) add(sponsorship domain.Sponsorship) domain.Sponsorship {
	if sponsorship.ID == 0 {
		sponsorship.ID = f.nextID
		f.nextID++
	} else if sponsorship.ID >= f.nextID {
		f.nextID = sponsorship.ID + 1
	}
	f.rows[sponsorship.ID] = sponsorship

	return sponsorship
}

func (f *fakeSponsorshipRepo) Create(_ context.Context, sponsorship domain.Sponsorship) (domain.Sponsorship, error) {
	for _, s := range f.rows {
		if s.UserID == sponsorship.UserID && s.EventID == sponsorship.EventID {
			return domain.Sponsorship{}, repository.ErrSponsorshipExists
		}
	}

	return f.add(sponsorship), nil
}

func (f *fakeSponsorshipRepo) FindByID(_ context.Context, id uint) (domain.Sponsorship, error) {
	sponsorship, ok := f.rows[id]
	if !ok {
		return domain.Sponsorship{}, repository.ErrSponsorshipNotFound
	}

	return sponsorship, nil
}

func (f *fakeSponsorshipRepo) Update(_ context.Context, sponsorship domain.Sponsorship) (domain.Sponsorship, error) {
	if _, ok := f.rows[sponsorship.ID]; !ok {
		return domain.Sponsorship{}, repository.ErrSponsorshipNotFound
	}
	f.rows[sponsorship.ID] = sponsorship

	return sponsorship, nil
}

func (f *fakeSponsorshipRepo) sorted() []domain.Sponsorship {
	out := make([]domain.Sponsorship, 0, len(f.rows))
	for _, s := range f.rows {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

func (f *fakeSponsorshipRepo) ListByEvent(_ context.Context, eventID uint, status string, offset, limit int) ([]domain.Sponsorship, int64, error) {
	var out []domain.Sponsorship
	for _, s := range f.sorted() {
		if s.EventID != eventID {
			continue
		}
		if status != "" && s.Status != status {
			continue
		}
		out = append(out, s)
	}

	return paginate(out, offset, limit), int64(len(out)), nil
}

func (f *fakeSponsorshipRepo) ListByUser(_ context.Context, userID uint, status string, offset, limit int) ([]domain.Sponsorship, int64, error) {
	var out []domain.Sponsorship
	for _, s := range f.sorted() {
		if s.UserID != userID {
			continue
		}
		if status != "" && s.Status != status {
			continue
		}
		out = append(out, s)
	}

	return paginate(out, offset, limit), int64(len(out)), nil
}

func (f *fakeSponsorshipRepo) SumApprovedByEvent(_ context.Context, eventID uint) (float64, error) {
	var sum float64
	for _, s := range f.rows {
		if s.EventID == eventID && s.Status == domain.SponsorshipStatusApproved {
			sum += s.Amount
		}
	}

	return sum, nil
}

func (f *fakeSponsorshipRepo) SumApprovedByUser(_ context.Context, userID uint) (float64, error) {
	var sum float64
	for _, s := range f.rows {
		if s.UserID == userID && s.Status == domain.SponsorshipStatusApproved {
			sum += s.Amount
		}
	}

	return sum, nil
}

func (f *fakeSponsorshipRepo) DistinctUserIDsByEvent(_ context.Context, eventID uint) ([]uint, error) {
	var out []uint
	for _, s := range f.sorted() {
		if s.EventID == eventID {
			out = append(out, s.UserID)
		}
	}

	return out, nil
}

func (f *fakeSponsorshipRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.rows)), nil
}

func (f *fakeSponsorshipRepo) StatsByEvent(_ context.Context, eventID uint) ([]repository.StatusStat, error) {
	return nil, nil
}

type fakeFeedbackRepo struct {
	rows   map[uint]domain.Feedback
	nextID uint
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{rows: map[uint]domain.Feedback{}, nextID: 1}
}

func (f *fakeFeedbackRepo) Create(_ context.Context, feedback domain.Feedback) (domain.Feedback, error) {
	for _, existing := range f.rows {
		if existing.UserID == feedback.UserID && existing.EventID == feedback.EventID {
			return domain.Feedback{}, repository.ErrFeedbackExists
		}
	}

	feedback.ID = f.nextID
	f.nextID++
	f.rows[feedback.ID] = feedback

	return feedback, nil
}

func (f *fakeFeedbackRepo) FindByID(_ context.Context, id uint) (domain.Feedback, error) {
	feedback, ok := f.rows[id]
	if !ok {
		return domain.Feedback{}, repository.ErrFeedbackNotFound
	}

	return feedback, nil
}

func (f *fakeFeedbackRepo) Update(_ context.Context, feedback domain.Feedback) (domain.Feedback, error) {
	if _, ok := f.rows[feedback.ID]; !ok {
		return domain.Feedback{}, repository.ErrFeedbackNotFound
	}
	f.rows[feedback.ID] = feedback

	return feedback, nil
}

func (f *fakeFeedbackRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.rows[id]; !ok {
		return repository.ErrFeedbackNotFound
	}
	delete(f.rows, id)

	return nil
}

func (f *fakeFeedbackRepo) ListByEvent(_ context.Context, eventID uint, rating, offset, limit int) ([]domain.Feedback, int64, error) {
	var out []domain.Feedback
	for _, fb := range f.sorted() {
		if fb.EventID != eventID {
			continue
		}
		if rating != 0 && fb.Rating != rating {
			continue
		}
		out = append(out, fb)
	}

	return paginate(out, offset, limit), int64(len(out)), nil
}

func (f *fakeFeedbackRepo) ListByUser(_ context.Context, userID uint, offset, limit int) ([]domain.Feedback, int64, error) {
	var out []domain.Feedback
	for _, fb := range f.sorted() {
		if fb.UserID == userID {
			out = append(out, fb)
		}
	}

	return paginate(out, offset, limit), int64(len(out)), nil
}

func (f *fakeFeedbackRepo) sorted() []domain.Feedback {
	out := make([]domain.Feedback, 0, len(f.rows))
	for _, fb := range f.rows {
		out = append(out, fb)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

func (f *fakeFeedbackRepo) Stats(_ context.Context, eventID uint) (domain.FeedbackStats, error) {
	stats := domain.FeedbackStats{Distribution: map[int]int{}}
	var sum int
	for _, fb := range f.rows {
		if fb.EventID != eventID {
			continue
		}
		stats.TotalFeedback++
		stats.Distribution[fb.Rating]++
		sum += fb.Rating
	}
	if stats.TotalFeedback > 0 {
		stats.AverageRating = float64(sum) / float64(stats.TotalFeedback)
	}

	return stats, nil
}

// recordedNotification captures one Notify or NotifyMany delivery.
type recordedNotification struct {
	RecipientID    uint
	Template       domain.Template
	RelatedEventID *uint
}

type recordingNotifier struct {
	sent []recordedNotification
}

func (r *recordingNotifier) Notify(_ context.Context, recipientID uint, tmpl domain.Template, relatedEventID, _ *uint) (domain.Notification, error) {
	r.sent = append(r.sent, recordedNotification{
		RecipientID:    recipientID,
		Template:       tmpl,
		RelatedEventID: relatedEventID,
	})

	title, message, kind := tmpl.Render()

	return domain.Notification{UserID: recipientID, Title: title, Message: message, Kind: kind}, nil
}

func (r *recordingNotifier) NotifyMany(ctx context.Context, recipientIDs []uint, tmpl domain.Template, relatedEventID *uint) error {
	for _, id := range recipientIDs {
		if _, err := r.Notify(ctx, id, tmpl, relatedEventID, nil); err != nil {
			return err
		}
	}

	return nil
}

func (r *recordingNotifier) recipients() []uint {
	out := make([]uint, 0, len(r.sent))
	for _, n := range r.sent {
		out = append(out, n.RecipientID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	return items
}
