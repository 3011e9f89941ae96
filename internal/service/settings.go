package service

import (
	"codboost/internal/models"
	"codboost/internal/repository"

	pkgerrors "github.com/pkg/errors"
)

var ErrUnknownSection = repository.ErrUnknownSection

func (s *Service) GetSettings(shopDomain string) (models.Settings, error) {
	settings, err := s.Settings.Get(shopDomain)
	if err != nil {
		return models.Settings{}, pkgerrors.Wrapf(ErrPersistence, "load settings: %v", err)
	}
	return settings, nil
}

func (s *Service) SaveSettings(shopDomain string, settings models.Settings) error {
	if err := s.Settings.Save(shopDomain, settings); err != nil {
		return pkgerrors.Wrapf(ErrPersistence, "save settings: %v", err)
	}
	return nil
}

func (s *Service) UpdateSettingsSection(shopDomain, section string, raw []byte) (models.Settings, error) {
	settings, err := s.Settings.UpdateSection(shopDomain, section, raw)
	if pkgerrors.Is(err, ErrUnknownSection) {
		return models.Settings{}, ErrUnknownSection
	}
	if err != nil {
		return models.Settings{}, pkgerrors.Wrapf(ErrPersistence, "update settings section: %v", err)
	}
	return settings, nil
}

// DeliveryFee is the default fee applied when a submission does not carry
// one.
func (s *Service) DeliveryFee(shopDomain string) (float64, error) {
	settings, err := s.GetSettings(shopDomain)
	if err != nil {
		return 0, err
	}
	return settings.Delivery.DeliveryFee, nil
}
