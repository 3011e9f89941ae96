package postgres

import (
	"time"

	"codboost/internal/models"

	"github.com/jinzhu/gorm"
	pkgerrors "github.com/pkg/errors"
)

// ErrInvalidTransition is re-exported by the repository package; it lives
// here because the transition check runs inside the store's transaction.
var ErrInvalidTransition = pkgerrors.New("invalid status transition")

type OrderPostgresRepo struct {
	db *gorm.DB
}

func NewOrderPostgres(db *gorm.DB) *OrderPostgresRepo {
	return &OrderPostgresRepo{db: db}
}

func (r *OrderPostgresRepo) Create(o models.CodOrder) (models.CodOrder, error) {
	if o.Status == "" {
		o.Status = models.StatusPending
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = models.PaymentPending
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&o).Error
	})
	if err != nil {
		return models.CodOrder{}, pkgerrors.Wrap(err, "insert cod order")
	}
	return o, nil
}

func (r *OrderPostgresRepo) FindByID(id uint) (models.CodOrder, error) {
	var o models.CodOrder
	q := r.db.First(&o, id)
	return o, q.Error
}

func (r *OrderPostgresRepo) FindByShopifyID(shopifyOrderID int64) (models.CodOrder, error) {
	var o models.CodOrder
	q := r.db.Where("shopify_order_id = ?", shopifyOrderID).First(&o)
	return o, q.Error
}

// FindByShop returns one page of a shop's orders, newest first, together
// with the total row count for UI paging.
func (r *OrderPostgresRepo) FindByShop(shopDomain string, page, limit int) ([]models.CodOrder, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var total int64
	scoped := r.db.Model(&models.CodOrder{}).Where("shop_domain = ?", shopDomain)
	if err := scoped.Count(&total).Error; err != nil {
		return nil, 0, pkgerrors.Wrap(err, "count cod orders")
	}

	orders := []models.CodOrder{}
	err := r.db.
		Where("shop_domain = ?", shopDomain).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "list cod orders")
	}
	return orders, total, nil
}

// SetShopifyOrder records the mirror identifiers after a successful remote
// create. The remote order number replaces the locally generated one.
func (r *OrderPostgresRepo) SetShopifyOrder(id uint, shopifyOrderID int64, orderNumber string) (models.CodOrder, error) {
	var out models.CodOrder
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var o models.CodOrder
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&o, id).Error; err != nil {
			return err
		}
		updates := map[string]interface{}{
			"shopify_order_id": shopifyOrderID,
			"updated_at":       time.Now().UTC(),
		}
		if orderNumber != "" {
			updates["order_number"] = orderNumber
		}
		if err := tx.Model(&o).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&out, id).Error
	})
	if err != nil {
		return models.CodOrder{}, err
	}
	return out, nil
}

// UpdateStatus applies one state-machine transition under a row lock so two
// concurrent callers cannot both move the order from the same state.
func (r *OrderPostgresRepo) UpdateStatus(id uint, status, notes string) (models.CodOrder, error) {
	var out models.CodOrder
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var o models.CodOrder
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&o, id).Error; err != nil {
			return err
		}
		if !o.CanTransition(status) {
			return ErrInvalidTransition
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{
			"status":     status,
			"updated_at": now,
		}
		switch status {
		case models.StatusConfirmed:
			if o.ConfirmedAt == nil {
				updates["confirmed_at"] = now
			}
		case models.StatusDelivered:
			if o.DeliveredAt == nil {
				updates["delivered_at"] = now
			}
			// Cash is collected by the courier at the door.
			updates["payment_status"] = models.PaymentPaid
		}
		if notes != "" {
			updates["order_notes"] = notes
		}

		if err := tx.Model(&o).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&out, id).Error
	})
	if err != nil {
		return models.CodOrder{}, err
	}
	return out, nil
}

func (r *OrderPostgresRepo) Stats(shopDomain string) (models.OrderStats, error) {
	var stats models.OrderStats

	scoped := r.db.Model(&models.CodOrder{}).Where("shop_domain = ?", shopDomain)
	if err := scoped.Count(&stats.Total).Error; err != nil {
		return models.OrderStats{}, pkgerrors.Wrap(err, "count orders")
	}

	byStatus := map[string]*int64{
		models.StatusPending:   &stats.Pending,
		models.StatusConfirmed: &stats.Confirmed,
		models.StatusDelivered: &stats.Delivered,
		models.StatusCancelled: &stats.Cancelled,
	}
	for status, dst := range byStatus {
		q := r.db.Model(&models.CodOrder{}).
			Where("shop_domain = ? AND status = ?", shopDomain, status)
		if err := q.Count(dst).Error; err != nil {
			return models.OrderStats{}, pkgerrors.Wrapf(err, "count %s orders", status)
		}
	}

	var revenue struct{ Revenue float64 }
	err := r.db.Model(&models.CodOrder{}).
		Select("COALESCE(SUM(total), 0) AS revenue").
		Where("shop_domain = ? AND status IN (?)", shopDomain,
			[]string{models.StatusConfirmed, models.StatusDelivered}).
		Scan(&revenue).Error
	if err != nil {
		return models.OrderStats{}, pkgerrors.Wrap(err, "sum revenue")
	}
	stats.TotalRevenue = revenue.Revenue

	return stats, nil
}
