package postgres

import (
	"encoding/json"

	"codboost/internal/models"

	"github.com/jinzhu/gorm"
	pkgerrors "github.com/pkg/errors"
)

var ErrUnknownSection = pkgerrors.New("unknown settings section")

type SettingsPostgresRepo struct {
	db *gorm.DB
}

func NewSettingsPostgres(db *gorm.DB) *SettingsPostgresRepo {
	return &SettingsPostgresRepo{db: db}
}

// Get returns the shop's settings document, falling back to the defaults
// when no row exists yet. The defaults are not persisted on read.
func (r *SettingsPostgresRepo) Get(shopDomain string) (models.Settings, error) {
	var row models.MerchantSettings
	err := r.db.Where("shop_domain = ?", shopDomain).First(&row).Error
	if gorm.IsRecordNotFoundError(err) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, pkgerrors.Wrap(err, "load merchant settings")
	}

	var s models.Settings
	if err := json.Unmarshal([]byte(row.Settings), &s); err != nil {
		return models.Settings{}, pkgerrors.Wrap(err, "decode merchant settings")
	}
	return s, nil
}

func (r *SettingsPostgresRepo) Save(shopDomain string, s models.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return pkgerrors.Wrap(err, "encode merchant settings")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var row models.MerchantSettings
		err := tx.Set("gorm:query_option", "FOR UPDATE").
			Where("shop_domain = ?", shopDomain).
			First(&row).Error
		switch {
		case gorm.IsRecordNotFoundError(err):
			row = models.MerchantSettings{ShopDomain: shopDomain, Settings: string(raw)}
			return tx.Create(&row).Error
		case err != nil:
			return err
		default:
			return tx.Model(&row).Update("settings", string(raw)).Error
		}
	})
}

// UpdateSection merges a partial JSON payload into one recognized section of
// the document and saves the result. Unknown keys inside the payload are
// ignored by the decoder; unknown section names are rejected.
func (r *SettingsPostgresRepo) UpdateSection(shopDomain, section string, raw []byte) (models.Settings, error) {
	s, err := r.Get(shopDomain)
	if err != nil {
		return models.Settings{}, err
	}

	var dst interface{}
	switch section {
	case "general":
		dst = &s.General
	case "email":
		dst = &s.Email
	case "notifications":
		dst = &s.Notifications
	case "delivery":
		dst = &s.Delivery
	default:
		return models.Settings{}, ErrUnknownSection
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return models.Settings{}, pkgerrors.Wrapf(err, "decode %s settings", section)
	}
	if err := r.Save(shopDomain, s); err != nil {
		return models.Settings{}, err
	}
	return s, nil
}
