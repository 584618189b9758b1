package email

import (
	"strings"
	"sync"
	"testing"

	"github.com/dropDatabas3/haven/internal/domain/repository"
)

type recordingSender struct {
	mu   sync.Mutex
	last struct {
		To      string
		Subject string
		HTML    string
		Text    string
	}
}

func (r *recordingSender) Send(to, subject, htmlBody, textBody string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last.To = to
	r.last.Subject = subject
	r.last.HTML = htmlBody
	r.last.Text = textBody
	return nil
}

func newTestEmailService(t *testing.T) (*Service, *recordingSender) {
	t.Helper()
	tpl, err := LoadTemplates()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	sender := &recordingSender{}
	return NewService(sender, tpl, "https://haven.test"), sender
}

var testUser = &repository.User{ID: "u-1", Email: "ana@example.com", Name: "Ana"}

func TestSendActivityCheck(t *testing.T) {
	svc, sender := newTestEmailService(t)

	if err := svc.SendActivityCheck(testUser, 14); err != nil {
		t.Fatalf("send: %v", err)
	}
	if sender.last.To != "ana@example.com" {
		t.Fatalf("to = %q", sender.last.To)
	}
	if sender.last.Subject != "Are you still there?" {
		t.Fatalf("subject = %q", sender.last.Subject)
	}
	if !strings.Contains(sender.last.Text, "https://haven.test") {
		t.Fatalf("text missing site link:\n%s", sender.last.Text)
	}
}

func TestSendContactAlert_WellnessLinks(t *testing.T) {
	svc, sender := newTestEmailService(t)
	contact := &repository.TrustedContact{ID: "c-1", ContactEmail: "heir@example.com"}

	if err := svc.SendContactAlert(testUser, contact, "123456", 17); err != nil {
		t.Fatalf("send: %v", err)
	}
	if sender.last.To != "heir@example.com" {
		t.Fatalf("to = %q", sender.last.To)
	}
	for _, link := range []string{
		"https://haven.test/wellness-check/confirm?token=123456",
		"https://haven.test/wellness-check/concern?token=123456",
	} {
		if !strings.Contains(sender.last.Text, link) {
			t.Fatalf("text missing %q:\n%s", link, sender.last.Text)
		}
	}
}

func TestSendRecovery(t *testing.T) {
	svc, sender := newTestEmailService(t)
	contact := &repository.TrustedContact{ID: "c-1", ContactEmail: "heir@example.com"}
	items := []repository.VaultItem{
		{Name: "Gmail", Provider: "google"},
		{Name: "Outlook", Provider: "microsoft"},
	}

	if err := svc.SendRecovery(testUser, contact, items, []string{"11112222"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if sender.last.Subject != "Account Recovery Information for Ana" {
		t.Fatalf("subject = %q", sender.last.Subject)
	}
	for _, want := range []string{"Gmail", "google", "Outlook", "11112222", "https://haven.test/recover?user=u-1"} {
		if !strings.Contains(sender.last.Text, want) {
			t.Fatalf("text missing %q:\n%s", want, sender.last.Text)
		}
	}
}

func TestSendContactVerification_ReminderSubject(t *testing.T) {
	svc, sender := newTestEmailService(t)

	if err := svc.SendContactVerification(testUser, "heir@example.com", false); err != nil {
		t.Fatalf("send: %v", err)
	}
	if strings.Contains(sender.last.Subject, "reminder") {
		t.Fatalf("subject = %q", sender.last.Subject)
	}

	if err := svc.SendContactVerification(testUser, "heir@example.com", true); err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.HasSuffix(sender.last.Subject, "(reminder)") {
		t.Fatalf("subject = %q", sender.last.Subject)
	}
}
