package escalation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/dropDatabas3/haven/internal/audit"
	"github.com/dropDatabas3/haven/internal/domain/repository"
	"github.com/dropDatabas3/haven/internal/email"
	"github.com/dropDatabas3/haven/internal/store/memory"
	"github.com/dropDatabas3/haven/internal/vault"
)

// captureSender acumula los envíos en memoria. failTo fuerza error para un
// destinatario puntual.
type captureSender struct {
	mu     sync.Mutex
	sends  []capturedMail
	failTo map[string]error
}

type capturedMail struct {
	To      string
	Subject string
}

func (c *captureSender) Send(to, subject, htmlBody, textBody string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err, ok := c.failTo[to]; ok {
		return err
	}
	c.sends = append(c.sends, capturedMail{To: to, Subject: subject})
	return nil
}

func (c *captureSender) sent() []capturedMail {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]capturedMail, len(c.sends))
	copy(out, c.sends)
	return out
}

type fixture struct {
	store     *memory.Store
	sender    *captureSender
	audit     *audit.Service
	scheduler *Scheduler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := memory.New()
	sender := &captureSender{failTo: map[string]error{}}
	tpl, err := email.LoadTemplates()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	emailSvc := email.NewService(sender, tpl, "https://haven.test")
	auditSvc := audit.New(st.Audit(), st.Inactivity())
	disclosure := &Disclosure{
		Users:    st.Users(),
		Contacts: st.Contacts(),
		Vault:    st.Vault(),
		Audit:    auditSvc,
		Email:    emailSvc,
	}
	sched := &Scheduler{
		Users:      st.Users(),
		Records:    st.Inactivity(),
		Rules:      st.Rules(),
		Contacts:   st.Contacts(),
		Email:      emailSvc,
		Disclosure: disclosure,
		PageSize:   2, // páginas chicas para ejercitar el cursor
	}
	return &fixture{store: st, sender: sender, audit: auditSvc, scheduler: sched}
}

func (f *fixture) addUser(t *testing.T, emailAddr string) *repository.User {
	t.Helper()
	u, _, err := f.store.Users().Create(context.Background(), repository.CreateUserInput{
		Email:        emailAddr,
		Name:         "Test User",
		PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *fixture) setCounter(t *testing.T, userID string, n int) {
	t.Helper()
	if err := f.store.Inactivity().UpsertCounter(context.Background(), userID, n); err != nil {
		t.Fatalf("set counter: %v", err)
	}
}

func (f *fixture) counter(t *testing.T, userID string) int {
	t.Helper()
	rec, err := f.store.Inactivity().Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	return rec.LastCheckedAt
}

func TestSweep_CreatesMissingRecords(t *testing.T) {
	f := newFixture(t)
	u := f.addUser(t, "a@example.com")

	sum, err := f.scheduler.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if sum.Processed != 1 || sum.Created != 1 || sum.Failed != 0 {
		t.Fatalf("summary = %+v", sum)
	}
	if got := f.counter(t, u.ID); got != 0 {
		t.Fatalf("counter = %d, want 0 (create cycle must not advance)", got)
	}
	if len(f.sender.sent()) != 0 {
		t.Fatalf("unexpected emails: %v", f.sender.sent())
	}
}

func TestSweep_AdvancesCounterQuietDays(t *testing.T) {
	f := newFixture(t)
	u := f.addUser(t, "a@example.com")
	f.setCounter(t, u.ID, 3)

	if _, err := f.scheduler.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if got := f.counter(t, u.ID); got != 4 {
		t.Fatalf("counter = %d, want 4", got)
	}
	if len(f.sender.sent()) != 0 {
		t.Fatalf("unexpected emails: %v", f.sender.sent())
	}
}

func TestSweep_ReminderDayEmailsOwner(t *testing.T) {
	f := newFixture(t)
	u := f.addUser(t, "owner@example.com")
	f.setCounter(t, u.ID, ReminderDay)

	if _, err := f.scheduler.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	sent := f.sender.sent()
	if len(sent) != 1 || sent[0].To != "owner@example.com" {
		t.Fatalf("sends = %v, want one to owner", sent)
	}
	if sent[0].Subject != "Are you still there?" {
		t.Fatalf("subject = %q", sent[0].Subject)
	}
	if got := f.counter(t, u.ID); got != ReminderDay+1 {
		t.Fatalf("counter = %d, want %d", got, ReminderDay+1)
	}
}

func TestSweep_ReminderFailureStillIncrements(t *testing.T) {
	f := newFixture(t)
	u := f.addUser(t, "owner@example.com")
	f.setCounter(t, u.ID, ReminderDay)
	f.sender.failTo["owner@example.com"] = errors.New("smtp down")

	sum, err := f.scheduler.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if sum.Failed != 0 {
		t.Fatalf("email failure must not mark the user failed: %+v", sum)
	}
	if got := f.counter(t, u.ID); got != ReminderDay+1 {
		t.Fatalf("counter = %d, want %d", got, ReminderDay+1)
	}
}

func TestSweep_AlertDayIssuesTokenAndAlertsAllContacts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addUser(t, "owner@example.com")
	f.setCounter(t, u.ID, AlertDay)
	for _, c := range []string{"c1@example.com", "c2@example.com"} {
		if _, err := f.store.Contacts().Insert(ctx, u.ID, c); err != nil {
			t.Fatalf("insert contact: %v", err)
		}
	}

	if _, err := f.scheduler.Sweep(ctx); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	rec, err := f.store.Inactivity().Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if !regexp.MustCompile(`^\d{6}$`).MatchString(rec.Token) {
		t.Fatalf("token = %q, want 6 digits", rec.Token)
	}
	if rec.LastCheckedAt != AlertDay+1 {
		t.Fatalf("counter = %d, want %d", rec.LastCheckedAt, AlertDay+1)
	}

	sent := f.sender.sent()
	if len(sent) != 2 {
		t.Fatalf("sends = %v, want 2 contact alerts", sent)
	}
	for _, m := range sent {
		if m.Subject != "User Inactivity Alert" {
			t.Fatalf("subject = %q", m.Subject)
		}
	}
}

func TestSweep_RuleMatchTriggersDisclosure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addUser(t, "owner@example.com")
	f.setCounter(t, u.ID, 5)
	if err := f.store.Rules().Upsert(ctx, repository.Rule{UserID: u.ID, InactivityDuration: 5}); err != nil {
		t.Fatalf("rule: %v", err)
	}
	if _, err := f.store.Contacts().Insert(ctx, u.ID, "heir@example.com"); err != nil {
		t.Fatalf("contact: %v", err)
	}
	payload, err := vault.Encode(map[string]any{
		"recoveryMethods": map[string]any{"twoFactorBackups": []any{"12345678"}},
	}, "demokey1")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := f.store.Vault().Insert(ctx, repository.CreateVaultItemInput{
		UserID:           u.ID,
		Provider:         "google",
		Name:             "Gmail",
		EncryptedPayload: payload,
	}); err != nil {
		t.Fatalf("vault: %v", err)
	}

	if _, err := f.scheduler.Sweep(ctx); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	sent := f.sender.sent()
	if len(sent) != 1 || sent[0].To != "heir@example.com" {
		t.Fatalf("sends = %v, want one recovery mail", sent)
	}
	if !strings.HasPrefix(sent[0].Subject, "Account Recovery Information") {
		t.Fatalf("subject = %q", sent[0].Subject)
	}

	// Las escrituras de auditoría de la divulgación resetean el contador a
	// 0, pero el incremento final del ciclo las pisa.
	if got := f.counter(t, u.ID); got != 6 {
		t.Fatalf("counter = %d, want 6", got)
	}

	entries, err := f.audit.ListByUser(ctx, u.ID, 10)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if len(entries) == 0 || entries[0].Action != repository.ActionSwitchTriggered {
		t.Fatalf("audit entries = %v, want Disclosure Triggered last", entries)
	}
}

func TestSweep_DisclosureSendFailureStillCompletes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addUser(t, "owner@example.com")
	f.setCounter(t, u.ID, 5)
	if err := f.store.Rules().Upsert(ctx, repository.Rule{UserID: u.ID, InactivityDuration: 5}); err != nil {
		t.Fatalf("rule: %v", err)
	}
	if _, err := f.store.Contacts().Insert(ctx, u.ID, "heir@example.com"); err != nil {
		t.Fatalf("contact: %v", err)
	}
	if _, err := f.store.Vault().Insert(ctx, repository.CreateVaultItemInput{
		UserID:   u.ID,
		Provider: "google",
		Name:     "Gmail",
	}); err != nil {
		t.Fatalf("vault: %v", err)
	}
	f.sender.failTo["heir@example.com"] = errors.New("mailbox unavailable")

	if _, err := f.scheduler.Sweep(ctx); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if sent := f.sender.sent(); len(sent) != 0 {
		t.Fatalf("sends = %v, want none", sent)
	}
	if got := f.counter(t, u.ID); got != 6 {
		t.Fatalf("counter = %d, want 6", got)
	}

	entries, err := f.audit.ListByUser(ctx, u.ID, 10)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	var failed, triggered int
	for _, e := range entries {
		switch e.Action {
		case repository.ActionSwitchSendFailed:
			failed++
		case repository.ActionSwitchTriggered:
			triggered++
		}
	}
	if failed != 1 || triggered != 1 {
		t.Fatalf("audit = %d failed / %d triggered, want 1/1", failed, triggered)
	}
}

func TestSweep_PaginatesWholeUserSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		u := f.addUser(t, fmt.Sprintf("u%d@example.com", i))
		f.setCounter(t, u.ID, 1)
	}

	sum, err := f.scheduler.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if sum.Processed != 5 {
		t.Fatalf("processed = %d, want 5 (page size %d)", sum.Processed, f.scheduler.PageSize)
	}
}

func TestSweep_ConcurrentFanOut(t *testing.T) {
	f := newFixture(t)
	f.scheduler.Concurrency = 4
	ctx := context.Background()
	for i := 0; i < 8; i++ {
		u := f.addUser(t, fmt.Sprintf("u%d@example.com", i))
		f.setCounter(t, u.ID, i)
	}

	sum, err := f.scheduler.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if sum.Processed != 8 || sum.Failed != 0 {
		t.Fatalf("summary = %+v", sum)
	}
}
