package services

import (
	"context"
	"strings"

	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-site-directory/pkg/ports"
)

const settingsID = "default"

var defaultSettings = domain.SystemSettings{
	ID:       settingsID,
	SiteName: "Site Directory",
}

type SettingsService struct {
	repo  ports.SettingsRepository
	clock ports.Clock
}

func NewSettingsService(repo ports.SettingsRepository, clock ports.Clock) *SettingsService {
	return &SettingsService{repo: repo, clock: clock}
}

// Get returns the stored settings, or defaults before the first save
func (s *SettingsService) Get(ctx context.Context) (*domain.SystemSettings, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get settings", Err: err}
	}
	if settings == nil {
		d := defaultSettings
		return &d, nil
	}
	return settings, nil
}

func (s *SettingsService) Update(ctx context.Context, update domain.SettingsUpdate) (*domain.SystemSettings, error) {
	if update.SiteName != nil && strings.TrimSpace(*update.SiteName) == "" {
		return nil, &domain.ValidationError{Field: "siteName", Message: "must not be blank"}
	}

	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if update.SiteName != nil {
		settings.SiteName = strings.TrimSpace(*update.SiteName)
	}
	if update.SiteDescription != nil {
		settings.SiteDescription = *update.SiteDescription
	}
	if update.SiteKeywords != nil {
		settings.SiteKeywords = *update.SiteKeywords
	}
	if update.FooterText != nil {
		settings.FooterText = *update.FooterText
	}
	settings.ID = settingsID
	settings.UpdatedAt = s.clock.Now()

	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return nil, &domain.PersistenceError{Op: "save settings", Err: err}
	}
	return settings, nil
}
