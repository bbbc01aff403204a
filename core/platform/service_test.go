package platform

import (
	"strconv"
	"testing"
)

type fakeRepo struct {
	areas   []Area
	loyalty *LoyaltyConfig
	general *GeneralConfig
	whats   *WhatsAppConfig
}

func (r *fakeRepo) CheckAreaSlugUniqueness(slug string, excludedAreas ...Area) error {
	excluded := make(map[string]bool, len(excludedAreas))
	for _, a := range excludedAreas {
		excluded[a.ID] = true
	}
	for _, a := range r.areas {
		if a.Slug == slug && !excluded[a.ID] {
			return ErrSlugExists
		}
	}
	return nil
}

func (r *fakeRepo) CreateArea(a Area) (Area, error) {
	a.ID = "a" + strconv.Itoa(len(r.areas)+1)
	r.areas = append(r.areas, a)
	return a, nil
}

func (r *fakeRepo) QueryAllAreas() ([]Area, error) { return r.areas, nil }

func (r *fakeRepo) GetAreaByID(id string) (Area, error) {
	for _, a := range r.areas {
		if a.ID == id {
			return a, nil
		}
	}
	return Area{}, ErrNotFound
}

func (r *fakeRepo) GetAreaBySlug(slug string) (Area, error) {
	for _, a := range r.areas {
		if a.Slug == slug {
			return a, nil
		}
	}
	return Area{}, ErrNotFound
}

func (r *fakeRepo) UpdateArea(a Area, isActive *bool) (Area, error) {
	for i := range r.areas {
		if r.areas[i].ID == a.ID {
			if isActive != nil {
				a.IsActive = *isActive
			} else {
				a.IsActive = r.areas[i].IsActive
			}
			r.areas[i] = a
			return a, nil
		}
	}
	return Area{}, ErrNotFound
}

func (r *fakeRepo) DeleteAreasByID(ids ...string) error {
	for _, id := range ids {
		for i := range r.areas {
			if r.areas[i].ID == id {
				r.areas = append(r.areas[:i], r.areas[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (r *fakeRepo) GetLoyaltyConfig() (LoyaltyConfig, error) {
	if r.loyalty == nil {
		return LoyaltyConfig{}, ErrConfigNotSet
	}
	return *r.loyalty, nil
}

func (r *fakeRepo) SetLoyaltyConfig(lc LoyaltyConfig) error {
	r.loyalty = &lc
	return nil
}

func (r *fakeRepo) GetGeneralConfig() (GeneralConfig, error) {
	if r.general == nil {
		return GeneralConfig{}, ErrConfigNotSet
	}
	return *r.general, nil
}

func (r *fakeRepo) SetGeneralConfig(gc GeneralConfig) error {
	r.general = &gc
	return nil
}

func (r *fakeRepo) GetWhatsAppConfig() (WhatsAppConfig, error) {
	if r.whats == nil {
		return WhatsAppConfig{}, ErrConfigNotSet
	}
	return *r.whats, nil
}

func (r *fakeRepo) SetWhatsAppConfig(wc WhatsAppConfig) error {
	r.whats = &wc
	return nil
}

func TestLoyaltyConfig_TierFor(t *testing.T) {
	lc := LoyaltyConfig{
		Tiers: []LoyaltyTier{
			{Name: "Oro", MinPoints: 500},
			{Name: "Bronce", MinPoints: 0},
			{Name: "Plata", MinPoints: 55},
		},
	}

	tests := []struct {
		points   int
		want     string
		wantNone bool
	}{
		{points: 0, want: "Bronce"},
		{points: 54, want: "Bronce"},
		{points: 55, want: "Plata"},
		{points: 499, want: "Plata"},
		{points: 500, want: "Oro"},
		{points: 10000, want: "Oro"},
	}
	for _, tt := range tests {
		tier, ok := lc.TierFor(tt.points)
		if !ok {
			t.Errorf("TierFor(%d) found no tier", tt.points)
			continue
		}
		if tier.Name != tt.want {
			t.Errorf("TierFor(%d) = %s; want %s", tt.points, tier.Name, tt.want)
		}
	}

	if _, ok := (LoyaltyConfig{}).TierFor(100); ok {
		t.Error("TierFor() with no tiers reported a match")
	}
}

func TestNewArea_Validate(t *testing.T) {
	svc := NewService(&fakeRepo{})

	na := NewArea{Name: "  Minería Subterránea "}
	if err := na.Validate(svc); err != nil {
		t.Fatalf("Validate(): %v", err)
	}
	if na.Name != "Minería Subterránea" {
		t.Errorf("Name = %q", na.Name)
	}
	if na.Slug != "mineria-subterranea" {
		t.Errorf("Slug = %q; want it derived from the name", na.Slug)
	}

	if err := (&NewArea{}).Validate(svc); err == nil {
		t.Error("Validate() accepted an empty area")
	}
	if err := (&NewArea{Name: "Lab", Slug: "Not A Slug"}).Validate(svc); err == nil {
		t.Error("Validate() accepted an invalid slug")
	}
}

func TestService_areaSlugUniqueness(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	area, err := svc.CreateArea(NewArea{Name: "Metalurgia", Slug: "metalurgia"})
	if err != nil {
		t.Fatalf("CreateArea(): %v", err)
	}
	if !area.IsActive {
		t.Error("CreateArea() defaults to inactive")
	}

	dup := NewArea{Name: "Metalurgia"}
	if err := dup.Validate(svc); err == nil {
		t.Error("Validate() accepted a duplicate slug")
	}

	// an area may keep its own slug on update
	ua := UpdateArea{Name: "Metalurgia Extractiva"}
	if err := ua.Validate(area, svc); err != nil {
		t.Errorf("Validate() rejected keeping own slug: %v", err)
	}
}

func TestService_ConfigurationComplete(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	if svc.ConfigurationComplete() {
		t.Fatal("ConfigurationComplete() = true on a fresh platform")
	}

	if _, err := svc.CreateArea(NewArea{Name: "Metalurgia", Slug: "metalurgia"}); err != nil {
		t.Fatalf("CreateArea(): %v", err)
	}
	if svc.ConfigurationComplete() {
		t.Error("ConfigurationComplete() = true without configs")
	}

	err := svc.SetLoyalty(LoyaltyConfig{
		WelcomeBonus: 50,
		EarnRate:     0.1,
		Tiers:        []LoyaltyTier{{Name: "Bronce", MinPoints: 0}},
	})
	if err != nil {
		t.Fatalf("SetLoyalty(): %v", err)
	}
	if svc.ConfigurationComplete() {
		t.Error("ConfigurationComplete() = true without general config")
	}

	err = svc.SetGeneral(GeneralConfig{
		SiteName:     "Veta",
		ContactEmail: "hola@veta.pe",
		Currency:     "PEN",
	})
	if err != nil {
		t.Fatalf("SetGeneral(): %v", err)
	}
	if !svc.ConfigurationComplete() {
		t.Error("ConfigurationComplete() = false with areas and both configs set")
	}
}

func TestService_configValidation(t *testing.T) {
	svc := NewService(&fakeRepo{})

	if err := svc.SetLoyalty(LoyaltyConfig{Tiers: nil}); err == nil {
		t.Error("SetLoyalty() accepted a config without tiers")
	}
	if err := svc.SetGeneral(GeneralConfig{SiteName: "Veta", ContactEmail: "nope", Currency: "PEN"}); err == nil {
		t.Error("SetGeneral() accepted an invalid email")
	}
	if err := svc.SetWhatsApp(WhatsAppConfig{Enabled: true}); err == nil {
		t.Error("SetWhatsApp() accepted enabled without a phone")
	}
	if err := svc.SetWhatsApp(WhatsAppConfig{Enabled: true, Phone: "+51987654321", DefaultDiscount: 10}); err != nil {
		t.Errorf("SetWhatsApp(): %v", err)
	}
}
