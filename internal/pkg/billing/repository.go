package billing

import (
	"github.com/ManuelReschke/BlockHolder/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	GetSubscription(userID uint) (*models.BillingSubscription, error)
	UpsertSubscription(sub *models.BillingSubscription) error
	ListUsage(userID uint) ([]models.BillingUsage, error)
	ListPaymentMethods(userID uint) ([]models.BillingPaymentMethod, error)
	ListTransactions(userID uint, limit int) ([]models.BillingTransaction, error)
	CreateTransaction(tx *models.BillingTransaction) error
	GetReferral(userID uint) (*models.BillingReferral, error)
	GetUserPlan(userID uint) (string, error)
	SetUserPlan(userID uint, plan string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetSubscription(userID uint) (*models.BillingSubscription, error) {
	var sub models.BillingSubscription
	if err := r.db.Where("user_id = ?", userID).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) UpsertSubscription(sub *models.BillingSubscription) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"plan",
			"billing_cycle",
			"status",
			"cost",
			"next_billing_date",
			"last_tx_hash",
			"updated_at",
		}),
	}).Create(sub).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return r.db.Where("user_id = ?", sub.UserID).First(sub).Error
}

func (r *gormRepository) ListUsage(userID uint) ([]models.BillingUsage, error) {
	var usage []models.BillingUsage
	err := r.db.Where("user_id = ?", userID).Order("resource ASC").Find(&usage).Error
	return usage, err
}

func (r *gormRepository) ListPaymentMethods(userID uint) ([]models.BillingPaymentMethod, error) {
	var methods []models.BillingPaymentMethod
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&methods).Error
	return methods, err
}

func (r *gormRepository) ListTransactions(userID uint, limit int) ([]models.BillingTransaction, error) {
	var txs []models.BillingTransaction
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&txs).Error
	return txs, err
}

func (r *gormRepository) CreateTransaction(tx *models.BillingTransaction) error {
	return r.db.Create(tx).Error
}

func (r *gormRepository) GetReferral(userID uint) (*models.BillingReferral, error) {
	var ref models.BillingReferral
	if err := r.db.Where("user_id = ?", userID).First(&ref).Error; err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *gormRepository) GetUserPlan(userID uint) (string, error) {
	var u models.User
	if err := r.db.Select("plan").First(&u, userID).Error; err != nil {
		return "", err
	}
	return u.Plan, nil
}

func (r *gormRepository) SetUserPlan(userID uint, plan string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Update("plan", plan).Error
}
