package platform

import (
	"errors"
	"time"

	"github.com/veta-academy/backend/core"
)

var (
	// errors
	ErrNotFound     = errors.New("area not found")
	ErrSlugExists   = errors.New("an area with this slug already exists")
	ErrConfigNotSet = errors.New("configuration not set")
)

type (
	Repository interface {
		CheckAreaSlugUniqueness(slug string, excludedAreas ...Area) error
		CreateArea(a Area) (Area, error)
		QueryAllAreas() ([]Area, error)
		GetAreaByID(id string) (Area, error)
		GetAreaBySlug(slug string) (Area, error)
		UpdateArea(a Area, isActive *bool) (Area, error)
		DeleteAreasByID(ids ...string) error

		GetLoyaltyConfig() (LoyaltyConfig, error)
		SetLoyaltyConfig(lc LoyaltyConfig) error
		GetGeneralConfig() (GeneralConfig, error)
		SetGeneralConfig(gc GeneralConfig) error
		GetWhatsAppConfig() (WhatsAppConfig, error)
		SetWhatsAppConfig(wc WhatsAppConfig) error
	}

	Service interface {
		CheckAreaSlugUniqueness(slug string, exclAreas ...Area) error
		CreateArea(na NewArea) (Area, error)
		QueryAllAreas() ([]Area, error)
		ActiveAreas() ([]Area, error)
		GetAreaByID(id string) (Area, error)
		GetAreaBySlug(slug string) (Area, error)
		UpdateArea(id string, ua UpdateArea) (Area, error)
		DeleteAreas(ids ...string) error

		Loyalty() (LoyaltyConfig, error)
		SetLoyalty(lc LoyaltyConfig) error
		General() (GeneralConfig, error)
		SetGeneral(gc GeneralConfig) error
		WhatsApp() (WhatsAppConfig, error)
		SetWhatsApp(wc WhatsAppConfig) error

		// ConfigurationComplete reports whether the platform is ready to serve:
		// at least one area exists, loyalty config is set and general config is set.
		ConfigurationComplete() bool
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CheckAreaSlugUniqueness(slug string, exclAreas ...Area) error {
	if err := svc.repo.CheckAreaSlugUniqueness(slug, exclAreas...); err != nil {
		if err == ErrSlugExists {
			return core.NewValidationError(err, core.FieldError{Field: "slug", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) CreateArea(na NewArea) (Area, error) {
	now := time.Now().UTC()
	area := Area{
		Slug:        na.Slug,
		Name:        na.Name,
		Description: na.Description,
		Color:       na.Color,
		Icon:        na.Icon,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if na.IsActive != nil {
		area.IsActive = *na.IsActive
	}
	return svc.repo.CreateArea(area)
}

func (svc *service) QueryAllAreas() ([]Area, error) {
	return svc.repo.QueryAllAreas()
}

func (svc *service) ActiveAreas() ([]Area, error) {
	areas, err := svc.repo.QueryAllAreas()
	if err != nil {
		return nil, err
	}
	active := make([]Area, 0, len(areas))
	for _, a := range areas {
		if a.IsActive {
			active = append(active, a)
		}
	}
	return active, nil
}

func (svc *service) GetAreaByID(id string) (Area, error) {
	return svc.repo.GetAreaByID(id)
}

func (svc *service) GetAreaBySlug(slug string) (Area, error) {
	return svc.repo.GetAreaBySlug(core.CleanString(slug, true /* lower */))
}

func (svc *service) UpdateArea(id string, ua UpdateArea) (Area, error) {
	orig, err := svc.repo.GetAreaByID(id)
	if err != nil {
		return Area{}, err
	}

	area := orig
	area.Slug = ua.Slug
	area.Name = ua.Name
	if ua.Description != nil {
		area.Description = *ua.Description
	}
	if ua.Color != "" {
		area.Color = ua.Color
	}
	if ua.Icon != nil {
		area.Icon = *ua.Icon
	}
	area.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateArea(area, ua.IsActive)
}

func (svc *service) DeleteAreas(ids ...string) error {
	return svc.repo.DeleteAreasByID(ids...)
}

func (svc *service) Loyalty() (LoyaltyConfig, error) {
	return svc.repo.GetLoyaltyConfig()
}

func (svc *service) SetLoyalty(lc LoyaltyConfig) error {
	if err := lc.Validate(); err != nil {
		return err
	}
	return svc.repo.SetLoyaltyConfig(lc)
}

func (svc *service) General() (GeneralConfig, error) {
	return svc.repo.GetGeneralConfig()
}

func (svc *service) SetGeneral(gc GeneralConfig) error {
	if err := gc.Validate(); err != nil {
		return err
	}
	return svc.repo.SetGeneralConfig(gc)
}

func (svc *service) WhatsApp() (WhatsAppConfig, error) {
	return svc.repo.GetWhatsAppConfig()
}

func (svc *service) SetWhatsApp(wc WhatsAppConfig) error {
	if err := wc.Validate(); err != nil {
		return err
	}
	return svc.repo.SetWhatsAppConfig(wc)
}

func (svc *service) ConfigurationComplete() bool {
	areas, err := svc.repo.QueryAllAreas()
	if err != nil || len(areas) == 0 {
		return false
	}
	if _, err := svc.repo.GetLoyaltyConfig(); err != nil {
		return false
	}
	if _, err := svc.repo.GetGeneralConfig(); err != nil {
		return false
	}
	return true
}
