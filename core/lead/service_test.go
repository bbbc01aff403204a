package lead

import (
	"strconv"
	"testing"

	"github.com/veta-academy/backend/core"
	"github.com/veta-academy/backend/core/notification"
)

type fakeRepo struct {
	leads []Lead
}

func (r *fakeRepo) CreateLead(l Lead) (Lead, error) {
	l.ID = "l" + strconv.Itoa(len(r.leads)+1)
	r.leads = append(r.leads, l)
	return l, nil
}

func (r *fakeRepo) QueryAllLeads() ([]Lead, error) { return r.leads, nil }

func (r *fakeRepo) GetLeadByID(id string) (Lead, error) {
	for _, l := range r.leads {
		if l.ID == id {
			return l, nil
		}
	}
	return Lead{}, ErrNotFound
}

func (r *fakeRepo) DeleteLeadsByID(ids ...string) error {
	for _, id := range ids {
		for i := range r.leads {
			if r.leads[i].ID == id {
				r.leads = append(r.leads[:i], r.leads[i+1:]...)
				break
			}
		}
	}
	return nil
}

type fakeMailService struct {
	sent []*core.EmailMessage
}

func (svc *fakeMailService) SendMessages(messages ...*core.EmailMessage) {
	svc.sent = append(svc.sent, messages...)
}

func TestNewLead_Validate(t *testing.T) {
	tests := []struct {
		name    string
		lead    NewLead
		wantErr bool
	}{
		{name: "ok", lead: NewLead{Name: "Pedro Castillo", Email: "pedro@test.pe", Phone: "+51987654321", Source: "landing"}},
		{name: "email optional fields empty", lead: NewLead{Name: "Pedro", Email: "pedro@test.pe"}},
		{name: "missing name", lead: NewLead{Email: "pedro@test.pe"}, wantErr: true},
		{name: "bad email", lead: NewLead{Name: "Pedro", Email: "nope"}, wantErr: true},
		{name: "bad phone", lead: NewLead{Name: "Pedro", Email: "pedro@test.pe", Phone: "987 654 321"}, wantErr: true},
		{name: "bad area slug", lead: NewLead{Name: "Pedro", Email: "pedro@test.pe", Area: "Not A Slug"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.lead.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCapture(t *testing.T) {
	repo := &fakeRepo{}
	mailSvc := &fakeMailService{}
	adminNotif := notification.NewHub().For("admin")
	svc := NewService(repo, mailSvc, adminNotif)

	nl := NewLead{
		Name:   "Pedro Castillo",
		Email:  "PEDRO@test.pe",
		Phone:  "+51987654321",
		Area:   "mineria",
		Source: "Landing",
	}
	if err := nl.Validate(); err != nil {
		t.Fatalf("Validate(): %v", err)
	}
	if nl.Email != "pedro@test.pe" || nl.Source != "landing" {
		t.Errorf("Validate() did not normalize: %+v", nl)
	}

	l, err := svc.Capture(nl)
	if err != nil {
		t.Fatalf("Capture(): %v", err)
	}
	if l.ID == "" {
		t.Error("Capture() returned no id")
	}

	if len(mailSvc.sent) != 1 {
		t.Fatalf("sent %d mails; want 1", len(mailSvc.sent))
	}
	msg := mailSvc.sent[0]
	if msg.TemplateName != "new-lead" {
		t.Errorf("TemplateName = %q", msg.TemplateName)
	}
	if len(msg.To) != 1 || msg.To[0] != core.Conf.SalesEmail {
		t.Errorf("To = %v; want the sales inbox", msg.To)
	}

	if adminNotif.Len() != 1 {
		t.Errorf("admin notifications = %d; want 1", adminNotif.Len())
	}

	leads, err := svc.QueryAll()
	if err != nil {
		t.Fatalf("QueryAll(): %v", err)
	}
	if len(leads) != 1 || leads[0].Name != "Pedro Castillo" {
		t.Errorf("QueryAll() = %v", leads)
	}
}
