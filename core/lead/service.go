package lead

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/veta-academy/backend/core"
	"github.com/veta-academy/backend/core/notification"
)

var (
	// errors
	ErrNotFound = errors.New("lead not found")
)

type (
	Repository interface {
		CreateLead(l Lead) (Lead, error)
		QueryAllLeads() ([]Lead, error)
		GetLeadByID(id string) (Lead, error)
		DeleteLeadsByID(ids ...string) error
	}

	Service interface {
		// Capture stores the lead, mails the sales inbox and queues an admin
		// notification. The lead is kept even when notifying fails.
		Capture(nl NewLead) (Lead, error)
		QueryAll() ([]Lead, error)
		GetByID(id string) (Lead, error)
		Delete(ids ...string) error
	}

	service struct {
		repo       Repository
		mailSvc    core.EmailService
		adminNotif *notification.Manager
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, adminNotif *notification.Manager) Service {
	return &service{repo: repo, mailSvc: mailSvc, adminNotif: adminNotif}
}

func (svc *service) Capture(nl NewLead) (Lead, error) {
	l := Lead{
		Name:      nl.Name,
		Email:     nl.Email,
		Phone:     nl.Phone,
		Area:      nl.Area,
		CourseID:  nl.CourseID,
		Message:   nl.Message,
		Source:    nl.Source,
		CreatedAt: time.Now().UTC(),
	}
	l, err := svc.repo.CreateLead(l)
	if err != nil {
		return Lead{}, err
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{core.Conf.SalesEmail},
		Subject:      fmt.Sprintf("Nuevo contacto: %s", l.Name),
		TemplateName: "new-lead",
		TemplateData: l,
	})
	if svc.adminNotif != nil {
		svc.adminNotif.Info(fmt.Sprintf("Nuevo contacto comercial de %s", l.Name))
	}
	return l, nil
}

func (svc *service) QueryAll() ([]Lead, error) {
	return svc.repo.QueryAllLeads()
}

func (svc *service) GetByID(id string) (Lead, error) {
	return svc.repo.GetLeadByID(id)
}

func (svc *service) Delete(ids ...string) error {
	return svc.repo.DeleteLeadsByID(ids...)
}
