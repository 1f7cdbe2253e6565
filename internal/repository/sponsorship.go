package repository

import (
	"context"
	"fmt"

	"github.com/eventease/eventease-api/internal/domain"
	"github.com/eventease/eventease-api/internal/repository/dao"
)

var (
	ErrSponsorshipExists   = dao.ErrSponsorshipExists
	ErrSponsorshipNotFound = dao.ErrSponsorshipNotFound
)

type SponsorshipDAO interface {
	Insert(ctx context.Context, sponsorship dao.Sponsorship) (dao.Sponsorship, error)
	FindByID(ctx context.Context, id uint) (dao.Sponsorship, error)
	Update(ctx context.Context, sponsorship dao.Sponsorship) (dao.Sponsorship, error)
	ListByEvent(ctx context.Context, eventID uint, status string, offset, limit int) ([]dao.Sponsorship, int64, error)
	ListByUser(ctx context.Context, userID uint, status string, offset, limit int) ([]dao.Sponsorship, int64, error)
	SumApprovedByEvent(ctx context.Context, eventID uint) (float64, error)
	SumApprovedByUser(ctx context.Context, userID uint) (float64, error)
	DistinctUserIDsByEvent(ctx context.Context, eventID uint) ([]uint, error)
	Count(ctx context.Context) (int64, error)
	StatsByEvent(ctx context.Context, eventID uint) ([]dao.SponsorshipStatusStat, error)
}

type SponsorshipRepository struct {
	dao SponsorshipDAO
}

func NewSponsorshipRepository(dao SponsorshipDAO) *SponsorshipRepository {
	return &SponsorshipRepository{
		dao: dao,
	}
}

func (r *SponsorshipRepository) Create(ctx context.Context, sponsorship domain.Sponsorship) (domain.Sponsorship, error) {
	created, err := r.dao.Insert(ctx, sponsorshipToDAO(sponsorship))
	if err != nil {
		return domain.Sponsorship{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	found, err := r.dao.FindByID(ctx, created.ID)
	if err != nil {
		return domain.Sponsorship{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return sponsorshipToDomain(found), nil
}

func (r *SponsorshipRepository) FindByID(ctx context.Context, id uint) (domain.Sponsorship, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Sponsorship{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return sponsorshipToDomain(found), nil
}

func (r *SponsorshipRepository) Update(ctx context.Context, sponsorship domain.Sponsorship) (domain.Sponsorship, error) {
	updated, err := r.dao.Update(ctx, sponsorshipToDAO(sponsorship))
	if err != nil {
		return domain.Sponsorship{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.FindByID(ctx, updated.ID)
}

func (r *SponsorshipRepository) ListByEvent(ctx context.Context, eventID uint, status string, offset, limit int) ([]domain.Sponsorship, int64, error) {
	found, total, err := r.dao.ListByEvent(ctx, eventID, status, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.ListByEvent -> %w", err)
	}

	return sponsorshipsToDomain(found), total, nil
}

func (r *SponsorshipRepository) ListByUser(ctx context.Context, userID uint, status string, offset, limit int) ([]domain.Sponsorship, int64, error) {
	found, total, err := r.dao.ListByUser(ctx, userID, status, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.ListByUser -> %w", err)
	}

	return sponsorshipsToDomain(found), total, nil
}

func (r *SponsorshipRepository) SumApprovedByEvent(ctx context.Context, eventID uint) (float64, error) {
	total, err := r.dao.SumApprovedByEvent(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.SumApprovedByEvent -> %w", err)
	}

	return total, nil
}

func (r *SponsorshipRepository) SumApprovedByUser(ctx context.Context, userID uint) (float64, error) {
	total, err := r.dao.SumApprovedByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.SumApprovedByUser -> %w", err)
	}

	return total, nil
}

func (r *SponsorshipRepository) DistinctUserIDsByEvent(ctx context.Context, eventID uint) ([]uint, error) {
	ids, err := r.dao.DistinctUserIDsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.DistinctUserIDsByEvent -> %w", err)
	}

	return ids, nil
}

func (r *SponsorshipRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.dao.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

// StatusStat is the per-status sponsorship aggregate for one event.
type StatusStat struct {
	Status      string  `json:"status"`
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

func (r *SponsorshipRepository) StatsByEvent(ctx context.Context, eventID uint) ([]StatusStat, error) {
	rows, err := r.dao.StatsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.StatsByEvent -> %w", err)
	}

	stats := make([]StatusStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, StatusStat{Status: row.Status, Count: row.Count, TotalAmount: row.TotalAmount})
	}

	return stats, nil
}

func sponsorshipsToDomain(found []dao.Sponsorship) []domain.Sponsorship {
	sponsorships := make([]domain.Sponsorship, 0, len(found))
	for _, s := range found {
		sponsorships = append(sponsorships, sponsorshipToDomain(s))
	}

	return sponsorships
}

func sponsorshipToDomain(s dao.Sponsorship) domain.Sponsorship {
	sponsorship := domain.Sponsorship{
		ID:             s.ID,
		UserID:         s.UserID,
		EventID:        s.EventID,
		Amount:         s.Amount,
		Message:        s.Message,
		Status:         s.Status,
		ApprovedByID:   s.ApprovedByID,
		ApprovedAt:     s.ApprovedAt,
		RejectedReason: s.RejectedReason,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}

	if s.User.ID != 0 {
		user := userToDomain(s.User)
		sponsorship.User = &user
	}
	if s.Event.ID != 0 {
		event := eventToDomain(s.Event)
		sponsorship.Event = &event
	}
	if s.ApprovedBy != nil && s.ApprovedBy.ID != 0 {
		approver := userToDomain(*s.ApprovedBy)
		sponsorship.ApprovedBy = &approver
	}

	return sponsorship
}

func sponsorshipToDAO(s domain.Sponsorship) dao.Sponsorship {
	return dao.Sponsorship{
		ID:             s.ID,
		UserID:         s.UserID,
		EventID:        s.EventID,
		Amount:         s.Amount,
		Message:        s.Message,
		Status:         s.Status,
		ApprovedByID:   s.ApprovedByID,
		ApprovedAt:     s.ApprovedAt,
		RejectedReason: s.RejectedReason,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
