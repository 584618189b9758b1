package email

import (
	"fmt"
	"net/url"

	"github.com/dropDatabas3/haven/internal/domain/repository"
)

const companyName = "Haven"

// Service renderiza y despacha los emails del workflow de escalación y de
// la gestión de contactos.
type Service struct {
	Sender    Sender
	Templates *Templates

	// SiteURL es la URL pública del sitio para armar links.
	SiteURL string
}

func NewService(sender Sender, tpl *Templates, siteURL string) *Service {
	return &Service{Sender: sender, Templates: tpl, SiteURL: siteURL}
}

type activityCheckVars struct {
	UserName       string
	CompanyName    string
	SiteURL        string
	LastActiveDate string
}

// SendActivityCheck manda el recordatorio "Are you still there?" al dueño.
func (s *Service) SendActivityCheck(user *repository.User, inactiveDays int) error {
	htmlBody, textBody, err := s.Templates.Render(TemplateActivityCheck, activityCheckVars{
		UserName:       user.Name,
		CompanyName:    companyName,
		SiteURL:        s.SiteURL,
		LastActiveDate: fmt.Sprintf("%d day(s)", inactiveDays),
	})
	if err != nil {
		return err
	}
	return s.Sender.Send(user.Email, "Are you still there?", htmlBody, textBody)
}

type contactAlertVars struct {
	ContactName    string
	UserName       string
	UserEmail      string
	CompanyName    string
	SiteURL        string
	Token          string
	InactivityDays int
}

// SendContactAlert manda la alerta de inactividad a un contacto, con los
// links de confirm/concern que llevan el token de wellness.
func (s *Service) SendContactAlert(user *repository.User, contact *repository.TrustedContact, token string, inactiveDays int) error {
	htmlBody, textBody, err := s.Templates.Render(TemplateContactAlert, contactAlertVars{
		ContactName:    contact.ContactEmail,
		UserName:       user.Name,
		UserEmail:      user.Email,
		CompanyName:    companyName,
		SiteURL:        s.SiteURL,
		Token:          token,
		InactivityDays: inactiveDays,
	})
	if err != nil {
		return err
	}
	return s.Sender.Send(contact.ContactEmail, "User Inactivity Alert", htmlBody, textBody)
}

type recoveryAsset struct {
	Name     string
	Provider string
}

type recoveryVars struct {
	UserName     string
	UserEmail    string
	CompanyName  string
	RecoveryLink string
	Assets       []recoveryAsset
	BackupCodes  []string
}

// SendRecovery manda a un contacto la información de recuperación agregada.
func (s *Service) SendRecovery(user *repository.User, contact *repository.TrustedContact, items []repository.VaultItem, backupCodes []string) error {
	vars := recoveryVars{
		UserName:     user.Name,
		UserEmail:    user.Email,
		CompanyName:  companyName,
		RecoveryLink: fmt.Sprintf("%s/recover?user=%s", s.SiteURL, url.QueryEscape(user.ID)),
		BackupCodes:  backupCodes,
	}
	for _, it := range items {
		vars.Assets = append(vars.Assets, recoveryAsset{Name: it.Name, Provider: it.Provider})
	}

	htmlBody, textBody, err := s.Templates.Render(TemplateRecovery, vars)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Account Recovery Information for %s", userDisplay(user))
	return s.Sender.Send(contact.ContactEmail, subject, htmlBody, textBody)
}

type contactVerifyVars struct {
	UserName            string
	CompanyName         string
	SiteURL             string
	ContactEmailEscaped string
}

// SendContactVerification manda el mail de verificación a un contacto nuevo.
func (s *Service) SendContactVerification(user *repository.User, contactEmail string, reminder bool) error {
	htmlBody, textBody, err := s.Templates.Render(TemplateContactVerify, contactVerifyVars{
		UserName:            user.Name,
		CompanyName:         companyName,
		SiteURL:             s.SiteURL,
		ContactEmailEscaped: url.QueryEscape(contactEmail),
	})
	if err != nil {
		return err
	}

	subject := "Verify your trusted contact"
	if reminder {
		subject += " (reminder)"
	}
	return s.Sender.Send(contactEmail, subject, htmlBody, textBody)
}

func userDisplay(u *repository.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.ID
}
