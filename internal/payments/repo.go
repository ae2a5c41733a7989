package payments

import (
	"context"

	"gorm.io/gorm"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db/models"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
)

// Repository persists payments, their transactions and refunds. The payment
// service owns all three tables, so one repository covers them and InTx can
// span any combination.
type Repository struct {
	db *gorm.DB
}

// NewRepository wraps the payment store.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// InTx runs fn inside a transaction, handing it a repository bound to the tx.
func (r *Repository) InTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *Repository) FindByPaymentID(ctx context.Context, paymentID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).First(&payment, "payment_id = ?", paymentID).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *Repository) FindByOrderID(ctx context.Context, orderID int64) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).First(&payment, "order_id = ?", orderID).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *Repository) ExistsByOrderID(ctx context.Context, orderID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).Count(&count).Error
	return count, err
}

func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *Repository) ListByStatus(ctx context.Context, status enums.PaymentStatus) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *Repository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Omit("Transactions").Save(payment).Error
}

// Delete removes a payment and its transactions.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Select("Transactions").Delete(&models.Payment{ID: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) CreateTransaction(ctx context.Context, txn *models.PaymentTransaction) (*models.PaymentTransaction, error) {
	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *Repository) UpdateTransaction(ctx context.Context, txn *models.PaymentTransaction) error {
	return r.db.WithContext(ctx).Save(txn).Error
}

func (r *Repository) ListTransactions(ctx context.Context, paymentID int64) ([]models.PaymentTransaction, error) {
	var txns []models.PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("created_at ASC, id ASC").
		Find(&txns).Error
	return txns, err
}
