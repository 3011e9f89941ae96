package service

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"codboost/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/gorm"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const mirrorTimeout = 15 * time.Second

// SubmitResult combines the authoritative local order with the outcome of
// the best-effort remote mirror attempt.
type SubmitResult struct {
	Order           models.CodOrder
	HasShopifyOrder bool
	ShopifyResult   *MirrorOutcome
	ShopifyError    string
}

type MirrorOutcome struct {
	OrderID     int64
	OrderNumber int
}

type ChangeStatusResult struct {
	Order         models.CodOrder
	MirrorUpdated bool
	MirrorError   string
}

type OrderPage struct {
	Orders     []models.CodOrder
	Total      int64
	Page       int
	TotalPages int
}

// Submit validates and durably persists one storefront submission, then
// attempts exactly one remote mirror creation. Local persistence is the
// strong guarantee: a mirror failure is recorded in the result, never
// surfaced as the overall error.
func (s *Service) Submit(ctx context.Context, raw OrderSubmission, shopDomain string) (SubmitResult, error) {
	if strings.TrimSpace(shopDomain) == "" {
		return SubmitResult{}, &ValidationError{Fields: []string{"shopDomain"}}
	}

	order := s.normalize(raw.trimmed(), shopDomain)

	if err := s.v.Struct(order); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			return SubmitResult{}, &ValidationError{Fields: violatedFields(verrs)}
		}
		return SubmitResult{}, err
	}

	saved, err := s.Orders.Create(order)
	if err != nil {
		return SubmitResult{}, pkgerrors.Wrapf(ErrPersistence, "save order: %v", err)
	}

	result := SubmitResult{Order: saved}

	// Remote leg. Bounded by its own timeout so a slow platform API cannot
	// hold the caller; the local write above is already committed.
	if sess, ok := s.sessions.GetSessionFor(shopDomain); ok && s.mirror != nil {
		mctx, cancel := context.WithTimeout(ctx, mirrorTimeout)
		remote, merr := s.mirror.CreateOrder(mctx, saved, sess)
		cancel()

		if merr != nil {
			result.ShopifyError = merr.Error()
			logrus.WithError(merr).WithFields(logrus.Fields{
				"shop":     shopDomain,
				"order_id": saved.ID,
			}).Warn("shopify mirror create failed, order saved locally only")
		} else {
			result.HasShopifyOrder = true
			result.ShopifyResult = &MirrorOutcome{
				OrderID:     remote.OrderID,
				OrderNumber: remote.OrderNumber,
			}
			updated, uerr := s.Orders.SetShopifyOrder(saved.ID, remote.OrderID, strconv.Itoa(remote.OrderNumber))
			if uerr != nil {
				// The remote order exists but the link-back failed; keep
				// reporting success and leave reconciliation to tooling.
				logrus.WithError(uerr).WithFields(logrus.Fields{
					"order_id":         saved.ID,
					"shopify_order_id": remote.OrderID,
				}).Error("failed to record shopify order id on local row")
			} else {
				result.Order = updated
			}
		}
	}

	s.publish(ctx, models.OrderEvent{
		Type:       models.EventOrderCreated,
		ShopDomain: shopDomain,
		Order:      result.Order,
		OccurredAt: time.Now().UTC(),
	})

	return result, nil
}

// ChangeStatus applies one local state-machine transition, then propagates
// it to the mirror when the order has a remote id. Propagation failures do
// not roll back the local change.
func (s *Service) ChangeStatus(ctx context.Context, id uint, status, notes string) (ChangeStatusResult, error) {
	previous, err := s.Orders.FindByID(id)
	if gorm.IsRecordNotFoundError(err) {
		return ChangeStatusResult{}, ErrNotFound
	}
	if err != nil {
		return ChangeStatusResult{}, pkgerrors.Wrapf(ErrPersistence, "load order: %v", err)
	}

	updated, err := s.Orders.UpdateStatus(id, status, notes)
	if gorm.IsRecordNotFoundError(err) {
		return ChangeStatusResult{}, ErrNotFound
	}
	if err != nil {
		if pkgerrors.Is(err, ErrInvalidTransition) {
			return ChangeStatusResult{}, ErrInvalidTransition
		}
		return ChangeStatusResult{}, pkgerrors.Wrapf(ErrPersistence, "update status: %v", err)
	}

	result := ChangeStatusResult{Order: updated}

	if updated.ShopifyOrderID != nil && s.mirror != nil {
		if sess, ok := s.sessions.GetSessionFor(updated.ShopDomain); ok {
			mctx, cancel := context.WithTimeout(ctx, mirrorTimeout)
			merr := s.mirror.UpdateOrderStatus(mctx, *updated.ShopifyOrderID, status, sess)
			cancel()

			if merr != nil {
				result.MirrorError = merr.Error()
				logrus.WithError(merr).WithFields(logrus.Fields{
					"order_id":         updated.ID,
					"shopify_order_id": *updated.ShopifyOrderID,
					"status":           status,
				}).Warn("shopify status propagation failed")
			} else {
				result.MirrorUpdated = true
			}
		}
	}

	s.publish(ctx, models.OrderEvent{
		Type:           models.EventOrderStatusChanged,
		ShopDomain:     updated.ShopDomain,
		Order:          updated,
		PreviousStatus: previous.Status,
		OccurredAt:     time.Now().UTC(),
	})

	return result, nil
}

func (s *Service) List(shopDomain string, page, limit int) (OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	orders, total, err := s.Orders.FindByShop(shopDomain, page, limit)
	if err != nil {
		return OrderPage{}, pkgerrors.Wrapf(ErrPersistence, "list orders: %v", err)
	}
	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	return OrderPage{Orders: orders, Total: total, Page: page, TotalPages: totalPages}, nil
}

func (s *Service) Stats(shopDomain string) (models.OrderStats, error) {
	stats, err := s.Orders.Stats(shopDomain)
	if err != nil {
		return models.OrderStats{}, pkgerrors.Wrapf(ErrPersistence, "order stats: %v", err)
	}
	return stats, nil
}

// normalize maps the raw submission onto a candidate order. The total is
// always recomputed; a client-supplied total is advisory only.
func (s *Service) normalize(raw OrderSubmission, shopDomain string) models.CodOrder {
	quantity := int(raw.Quantity)
	if quantity < 1 {
		quantity = 1
	}

	unitPrice := float64(raw.UnitPrice)

	var deliveryFee float64
	if raw.DeliveryFee != nil {
		deliveryFee = float64(*raw.DeliveryFee)
	} else if settings, err := s.Settings.Get(shopDomain); err == nil {
		deliveryFee = settings.Delivery.DeliveryFee
		subtotal := float64(quantity) * unitPrice
		if settings.Delivery.FreeDeliveryEnabled && subtotal >= settings.Delivery.FreeDeliveryThreshold {
			deliveryFee = 0
		}
	}

	subtotal := float64(quantity) * unitPrice

	return models.CodOrder{
		ShopDomain:  shopDomain,
		OrderNumber: generateOrderNumber(),

		ProductID:    raw.ProductID,
		VariantID:    raw.VariantID,
		ProductTitle: raw.ProductTitle,
		ProductImage: raw.ProductImage,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		Subtotal:     subtotal,
		DeliveryFee:  deliveryFee,
		Total:        subtotal + deliveryFee,

		CustomerName:  raw.CustomerName,
		CustomerPhone: raw.CustomerPhone,
		CustomerEmail: raw.CustomerEmail,

		DeliveryAddress:    raw.DeliveryAddress,
		DeliveryCity:       raw.DeliveryCity,
		DeliveryPostalCode: raw.DeliveryPostalCode,
		OrderNotes:         raw.OrderNotes,

		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
	}
}

func (s *Service) publish(ctx context.Context, ev models.OrderEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishOrderEvent(ctx, ev); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"type":     ev.Type,
			"order_id": ev.Order.ID,
		}).Warn("order event publish failed")
	}
}

// generateOrderNumber builds a human-readable placeholder used until the
// mirror assigns a real order number.
func generateOrderNumber() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return fmt.Sprintf("COD%s%03d", ts[len(ts)-6:], rand.Intn(1000))
}

func violatedFields(errs validator.ValidationErrors) []string {
	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, lowerCamel(fe.Field()))
	}
	return fields
}

func lowerCamel(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
