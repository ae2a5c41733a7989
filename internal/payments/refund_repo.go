package payments

import (
	"context"

	"gorm.io/gorm"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db/models"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
)

func (r *Repository) CreateRefund(ctx context.Context, refund *models.Refund) (*models.Refund, error) {
	if err := r.db.WithContext(ctx).Create(refund).Error; err != nil {
		return nil, err
	}
	return refund, nil
}

func (r *Repository) FindRefundByID(ctx context.Context, id int64) (*models.Refund, error) {
	var refund models.Refund
	err := r.db.WithContext(ctx).First(&refund, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &refund, nil
}

func (r *Repository) FindRefundByRefundID(ctx context.Context, refundID string) (*models.Refund, error) {
	var refund models.Refund
	err := r.db.WithContext(ctx).First(&refund, "refund_id = ?", refundID).Error
	if err != nil {
		return nil, err
	}
	return &refund, nil
}

func (r *Repository) CountRefunds(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Refund{}).Count(&count).Error
	return count, err
}

func (r *Repository) ListRefundsByPayment(ctx context.Context, paymentID int64) ([]models.Refund, error) {
	var refunds []models.Refund
	err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("created_at ASC, id ASC").
		Find(&refunds).Error
	return refunds, err
}

func (r *Repository) ListRefundsByStatus(ctx context.Context, status enums.RefundStatus) ([]models.Refund, error) {
	var refunds []models.Refund
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&refunds).Error
	return refunds, err
}

// ListCompletedRefunds returns the completed refunds for a payment, the set
// that counts toward the refundable balance.
func (r *Repository) ListCompletedRefunds(ctx context.Context, paymentID int64) ([]models.Refund, error) {
	var refunds []models.Refund
	err := r.db.WithContext(ctx).
		Where("payment_id = ? AND status = ?", paymentID, enums.RefundStatusCompleted).
		Find(&refunds).Error
	return refunds, err
}

func (r *Repository) UpdateRefund(ctx context.Context, refund *models.Refund) error {
	return r.db.WithContext(ctx).Save(refund).Error
}

func (r *Repository) DeleteRefund(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Refund{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
