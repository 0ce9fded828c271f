package services

import (
	"context"
	"time"

	"github.com/loki1512/MS-Fitness-Gym/internal/membership"
	"github.com/loki1512/MS-Fitness-Gym/internal/models"
	"github.com/loki1512/MS-Fitness-Gym/internal/repositories"
	"github.com/loki1512/MS-Fitness-Gym/internal/services/dto"
	"github.com/loki1512/MS-Fitness-Gym/pkg/apperrors"
	"gorm.io/gorm"
)

const (
	FilterThisMonth  = "this_month"
	FilterLastMonth  = "last_month"
	FilterCustom     = "custom"
	FilterLast30Days = "last_30_days"

	projectionWindowDays = 30
)

// scenario growth rates and multipliers for the revenue projections
var projectionScenarios = []struct {
	name   string
	growth float64
	factor float64
}{
	{"pessimistic", -0.05, 0.95},
	{"status_quo", 0.0, 1.0},
	{"optimistic", 0.10, 1.10},
}

type ReportService interface {
	AllTransactions(ctx context.Context, db *gorm.DB, filter *dto.DateRangeFilter) (*dto.TransactionListResponse, error)
	Transactions(ctx context.Context, db *gorm.DB, filter *dto.TransactionFilter) (*dto.TransactionListResponse, error)
	PriorityList(ctx context.Context, db *gorm.DB) ([]dto.PriorityItem, error)
	ExpiredMembers(ctx context.Context, db *gorm.DB) ([]dto.ExpiredMemberItem, error)
	Projections(ctx context.Context, db *gorm.DB) (*dto.ProjectionResponse, error)
	Stats(ctx context.Context, db *gorm.DB) (*dto.StatsResponse, error)
}

type ReportServiceImpl struct {
	userRepo       repositories.UserRepository
	planRepo       repositories.PlanRepository
	membershipRepo repositories.MembershipRepository
	paymentRepo    repositories.PaymentRepository
	clock          Clock
}

func NewReportService(
	userRepo repositories.UserRepository,
	planRepo repositories.PlanRepository,
	membershipRepo repositories.MembershipRepository,
	paymentRepo repositories.PaymentRepository,
	clock Clock,
) ReportService {
	return &ReportServiceImpl{
		userRepo:       userRepo,
		planRepo:       planRepo,
		membershipRepo: membershipRepo,
		paymentRepo:    paymentRepo,
		clock:          clock,
	}
}

// AllTransactions lists Approved payments, optionally bounded by inclusive
// start and end dates.
func (s *ReportServiceImpl) AllTransactions(ctx context.Context, db *gorm.DB, filter *dto.DateRangeFilter) (*dto.TransactionListResponse, error) {
	from, to, err := dateRangeWindow(filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindWithFilter(db.WithContext(ctx), repositories.PaymentFilter{
		Statuses: []models.PaymentStatus{models.PaymentApproved},
		From:     from,
		To:       to,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.TransactionItem, 0, len(payments))
	for i := range payments {
		items = append(items, transactionItem(&payments[i], true))
	}
	return &dto.TransactionListResponse{Transactions: items, Count: len(items)}, nil
}

// Transactions lists payments of every status in the selected window.
// total_revenue counts Approved payments only.
func (s *ReportServiceImpl) Transactions(ctx context.Context, db *gorm.DB, filter *dto.TransactionFilter) (*dto.TransactionListResponse, error) {
	from, to, err := transactionWindow(filter, s.clock.Today())
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindWithFilter(db.WithContext(ctx), repositories.PaymentFilter{
		From: from,
		To:   to,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	var revenue float64
	items := make([]dto.TransactionItem, 0, len(payments))
	for i := range payments {
		p := &payments[i]
		if p.Status == models.PaymentApproved {
			revenue += p.Amount
		}
		items = append(items, transactionItem(p, false))
	}
	return &dto.TransactionListResponse{
		Transactions: items,
		Count:        len(items),
		TotalRevenue: &revenue,
	}, nil
}

// PriorityList returns Active or Expiring memberships ending within the
// expiring window, soonest first.
func (s *ReportServiceImpl) PriorityList(ctx context.Context, db *gorm.DB) ([]dto.PriorityItem, error) {
	today := s.clock.Today()
	list, err := s.membershipRepo.FindEndingBetween(
		db.WithContext(ctx),
		models.CurrentStatuses,
		today,
		today.AddDate(0, 0, membership.ExpiringWindowDays),
	)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.PriorityItem, 0, len(list))
	for i := range list {
		m := &list[i]
		if !membership.IsExpiringSoon(m, today) {
			continue
		}
		item := dto.PriorityItem{
			ID:            m.ID,
			UserID:        m.UserID,
			Plan:          m.PlanName(),
			EndDate:       formatDate(m.End()),
			DaysRemaining: membership.DaysRemaining(m, today),
			Status:        string(membership.Classify(m, today)),
		}
		if m.User != nil {
			item.UserName = m.User.DisplayName()
			item.Phone = m.User.Phone
		}
		items = append(items, item)
	}
	return items, nil
}

// ExpiredMembers lists each user whose most recent lapsed membership ended
// before today, most recently lapsed first. Users who have since renewed are
// left out.
func (s *ReportServiceImpl) ExpiredMembers(ctx context.Context, db *gorm.DB) ([]dto.ExpiredMemberItem, error) {
	today := s.clock.Today()
	db = db.WithContext(ctx)

	list, err := s.membershipRepo.FindEndedBefore(db, today)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	renewed, err := s.membershipRepo.UserIDsWithAccess(db, today)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return expiredMembers(list, renewed, today), nil
}

func (s *ReportServiceImpl) Projections(ctx context.Context, db *gorm.DB) (*dto.ProjectionResponse, error) {
	db = db.WithContext(ctx)
	today := s.clock.Today()

	ending, err := s.membershipRepo.FindEndingBetween(
		db,
		models.CurrentStatuses,
		today,
		today.AddDate(0, 0, projectionWindowDays),
	)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	var expected float64
	for i := range ending {
		if ending[i].Plan != nil {
			expected += ending[i].Plan.Price
		}
	}

	since := today.AddDate(0, 0, -projectionWindowDays)
	actual, err := s.paymentRepo.SumApproved(db, &since, nil)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return buildProjection(expected, len(ending), actual), nil
}

func (s *ReportServiceImpl) Stats(ctx context.Context, db *gorm.DB) (*dto.StatsResponse, error) {
	db = db.WithContext(ctx)

	members, err := s.userRepo.CountByRole(db, models.RoleMember)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	active, err := s.membershipRepo.CountByStatus(db, models.MembershipActive)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	plans, err := s.planRepo.CountActive(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.StatsResponse{
		TotalMembers:      members,
		ActiveMemberships: active,
		TotalPlans:        plans,
	}, nil
}

// transactionWindow maps the admin filter onto a half-open [from, to) range
// of payment dates. Unknown or missing filters mean the last 30 days, and so
// does "custom" without both dates.
func transactionWindow(filter *dto.TransactionFilter, today time.Time) (*time.Time, *time.Time, error) {
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	switch filter.Filter {
	case FilterThisMonth:
		return &firstOfMonth, nil, nil

	case FilterLastMonth:
		from := firstOfMonth.AddDate(0, -1, 0)
		return &from, &firstOfMonth, nil

	case FilterCustom:
		if filter.StartDate != "" && filter.EndDate != "" {
			return dateRangeWindow(filter.StartDate, filter.EndDate)
		}
	}

	from := today.AddDate(0, 0, -projectionWindowDays)
	return &from, nil, nil
}

// dateRangeWindow turns inclusive YYYY-MM-DD bounds into [from, to+1day).
// Empty bounds stay open.
func dateRangeWindow(start, end string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if start != "" {
		t, err := parseDate(start)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if end != "" {
		t, err := parseDate(end)
		if err != nil {
			return nil, nil, err
		}
		next := t.AddDate(0, 0, 1)
		to = &next
	}
	if from != nil && to != nil && !from.Before(*to) {
		return nil, nil, apperrors.ValidationError(map[string]string{
			"end_date": "end_date must not be before start_date",
		})
	}
	return from, to, nil
}

func buildProjection(expected float64, expiringCount int, lastMonth float64) *dto.ProjectionResponse {
	avg := lastMonth
	scenarios := make(map[string]dto.Scenario, len(projectionScenarios))
	for _, sc := range projectionScenarios {
		scenarios[sc.name] = dto.Scenario{
			GrowthRate: sc.growth,
			Quarterly:  avg * 3 * sc.factor,
			Annual:     avg * 12 * sc.factor,
		}
	}
	return &dto.ProjectionResponse{
		NextMonthExpected: expected,
		ExpiringCount:     expiringCount,
		LastMonthActual:   lastMonth,
		MonthlyAverage:    avg,
		Scenarios:         scenarios,
	}
}

// expiredMembers keeps the first (most recent) lapsed membership per user,
// skipping users in renewed. list must be ordered by end date descending.
func expiredMembers(list []models.Membership, renewed []string, today time.Time) []dto.ExpiredMemberItem {
	seen := make(map[string]struct{}, len(list)+len(renewed))
	for _, id := range renewed {
		seen[id] = struct{}{}
	}
	items := make([]dto.ExpiredMemberItem, 0)
	for i := range list {
		m := &list[i]
		if _, ok := seen[m.UserID]; ok {
			continue
		}
		seen[m.UserID] = struct{}{}

		item := dto.ExpiredMemberItem{
			UserID:      m.UserID,
			LastPlan:    m.PlanName(),
			ExpiredOn:   formatDate(m.End()),
			DaysExpired: membership.DaysBetween(m.End(), today),
		}
		if m.User != nil {
			item.UserName = m.User.DisplayName()
			item.Phone = m.User.Phone
		}
		items = append(items, item)
	}
	return items
}

func transactionItem(p *models.Payment, withContact bool) dto.TransactionItem {
	item := dto.TransactionItem{
		ID:            p.ID,
		UserName:      userDisplayName(p.User),
		Plan:          p.PlanName(),
		Amount:        p.Amount,
		TxnRef:        p.TxnRef,
		PaymentMethod: string(p.Method),
		Status:        string(p.Status),
		Date:          p.Date,
		ApprovedAt:    p.ApprovedAt,
		Notes:         p.Notes,
	}
	if withContact && p.User != nil {
		item.UserEmail = p.User.Email
		item.UserPhone = p.User.Phone
	}
	return item
}
