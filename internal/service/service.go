package service

import (
	"context"
	"regexp"

	"codboost/internal/models"
	"codboost/internal/repository"
	"codboost/internal/shopify"

	"github.com/go-playground/validator/v10"
)

type Orders interface {
	Submit(ctx context.Context, raw OrderSubmission, shopDomain string) (SubmitResult, error)
	ChangeStatus(ctx context.Context, id uint, status, notes string) (ChangeStatusResult, error)
	List(shopDomain string, page, limit int) (OrderPage, error)
	Stats(shopDomain string) (models.OrderStats, error)
}

type MerchantSettings interface {
	GetSettings(shopDomain string) (models.Settings, error)
	SaveSettings(shopDomain string, s models.Settings) error
	UpdateSettingsSection(shopDomain, section string, raw []byte) (models.Settings, error)
}

// Mirror is the remote order-creation surface of the commerce platform.
// Implementations must make exactly one attempt per call.
type Mirror interface {
	CreateOrder(ctx context.Context, order models.CodOrder, sess *shopify.Session) (shopify.OrderResult, error)
	UpdateOrderStatus(ctx context.Context, shopifyOrderID int64, status string, sess *shopify.Session) error
}

// EventPublisher emits order lifecycle events for the notification
// pipeline. Publishing is best-effort.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, ev models.OrderEvent) error
}

type Service struct {
	repository.Orders
	repository.Settings

	mirror   Mirror
	sessions shopify.SessionStore
	events   EventPublisher

	v *validator.Validate
}

// loosely matches international phone shapes: optional +, then at least
// nine digits, spaces, dashes or parentheses
var phoneShape = regexp.MustCompile(`^\+?[\d\s\-()]{9,}$`)

func NewService(repo *repository.Repository, mirror Mirror, sessions shopify.SessionStore, events EventPublisher) *Service {
	v := validator.New()
	_ = v.RegisterValidation("codphone", func(fl validator.FieldLevel) bool {
		return phoneShape.MatchString(fl.Field().String())
	})

	return &Service{
		Orders:   repo.Orders,
		Settings: repo.Settings,
		mirror:   mirror,
		sessions: sessions,
		events:   events,
		v:        v,
	}
}
