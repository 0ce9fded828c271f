package repositories

import (
	"errors"
	"time"

	"github.com/loki1512/MS-Fitness-Gym/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrPaymentNotFound = errors.New("payment not found")

type PaymentRepository interface {
	Create(db *gorm.DB, payment *models.Payment) error
	FindByID(db *gorm.DB, id string) (*models.Payment, error)
	LockByID(db *gorm.DB, id string) (*models.Payment, error)
	Update(db *gorm.DB, paymentID string, updates map[string]interface{}) error
	FindByUser(db *gorm.DB, userID string) ([]models.Payment, error)
	FindWithFilter(db *gorm.DB, filter PaymentFilter) ([]models.Payment, error)
	SumApproved(db *gorm.DB, from, to *time.Time) (float64, error)
	TxnRefInUse(db *gorm.DB, txnRef string) (bool, error)
}

// PaymentFilter selects payments by status and a half-open date window [From, To).
type PaymentFilter struct {
	Statuses []models.PaymentStatus
	From     *time.Time
	To       *time.Time
}

type PaymentRepositoryImpl struct{}

func NewPaymentRepository() PaymentRepository {
	return &PaymentRepositoryImpl{}
}

func (r *PaymentRepositoryImpl) Create(db *gorm.DB, payment *models.Payment) error {
	if payment.Date.IsZero() {
		payment.Date = time.Now().UTC()
	}
	return db.Create(payment).Error
}

func (r *PaymentRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Payment, error) {
	var payment models.Payment
	err := db.Preload("User").Preload("Plan").First(&payment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// LockByID reads the payment with SELECT ... FOR UPDATE inside the caller's transaction.
func (r *PaymentRepositoryImpl) LockByID(db *gorm.DB, id string) (*models.Payment, error) {
	var payment models.Payment
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&payment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepositoryImpl) Update(db *gorm.DB, paymentID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := db.Model(&models.Payment{}).Where("id = ?", paymentID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (r *PaymentRepositoryImpl) FindByUser(db *gorm.DB, userID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := db.Preload("Plan").
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&payments).Error
	return payments, err
}

// FindWithFilter returns matching payments newest first, with user and plan.
func (r *PaymentRepositoryImpl) FindWithFilter(db *gorm.DB, filter PaymentFilter) ([]models.Payment, error) {
	var payments []models.Payment
	err := applyPaymentFilter(db.Preload("User").Preload("Plan"), filter).
		Order("date DESC").
		Find(&payments).Error
	return payments, err
}

func (r *PaymentRepositoryImpl) SumApproved(db *gorm.DB, from, to *time.Time) (float64, error) {
	var total float64
	filter := PaymentFilter{
		Statuses: []models.PaymentStatus{models.PaymentApproved},
		From:     from,
		To:       to,
	}
	err := applyPaymentFilter(db.Model(&models.Payment{}), filter).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// TxnRefInUse reports whether a Pending or Approved payment already carries txnRef.
// Rejected submissions free the reference for a retry.
func (r *PaymentRepositoryImpl) TxnRefInUse(db *gorm.DB, txnRef string) (bool, error) {
	var count int64
	err := db.Model(&models.Payment{}).
		Where("txn_ref = ? AND status IN ?", txnRef, []models.PaymentStatus{models.PaymentPending, models.PaymentApproved}).
		Count(&count).Error
	return count > 0, err
}

func applyPaymentFilter(query *gorm.DB, filter PaymentFilter) *gorm.DB {
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date < ?", *filter.To)
	}
	return query
}
