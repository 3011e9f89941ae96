package repository

import (
	"time"

	"codboost/internal/models"
	"codboost/internal/repository/cache"
	"codboost/internal/repository/postgres"

	"github.com/jinzhu/gorm"
)

// ErrInvalidTransition is returned by UpdateStatus when the requested move
// violates the order state machine.
var (
	ErrInvalidTransition = postgres.ErrInvalidTransition
	ErrUnknownSection    = postgres.ErrUnknownSection
)

const settingsTTL = 5 * time.Minute

type Orders interface {
	Create(ord models.CodOrder) (models.CodOrder, error)
	FindByID(id uint) (models.CodOrder, error)
	FindByShopifyID(shopifyOrderID int64) (models.CodOrder, error)
	FindByShop(shopDomain string, page, limit int) ([]models.CodOrder, int64, error)
	SetShopifyOrder(id uint, shopifyOrderID int64, orderNumber string) (models.CodOrder, error)
	UpdateStatus(id uint, status, notes string) (models.CodOrder, error)
	Stats(shopDomain string) (models.OrderStats, error)
}

type Settings interface {
	Get(shopDomain string) (models.Settings, error)
	Save(shopDomain string, s models.Settings) error
	UpdateSection(shopDomain, section string, raw []byte) (models.Settings, error)
}

type Repository struct {
	Orders
	Settings
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Orders: postgres.NewOrderPostgres(db),
		Settings: cache.NewSettingsCache(
			postgres.NewSettingsPostgres(db),
			cache.NewCache(cache.WithTTL(settingsTTL)),
		),
	}
}
