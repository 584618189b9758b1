package escalation

import (
	"context"
	"errors"
	"testing"

	"github.com/dropDatabas3/haven/internal/domain/repository"
	"github.com/dropDatabas3/haven/internal/vault"
)

func TestDisclosure_NoAssetsAuditsAndStops(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addUser(t, "owner@example.com")
	if _, err := f.store.Contacts().Insert(ctx, u.ID, "heir@example.com"); err != nil {
		t.Fatalf("contact: %v", err)
	}

	if err := f.scheduler.Disclosure.Trigger(ctx, u.ID); err != nil {
		t.Fatalf("trigger: %v", err)
	}

	if len(f.sender.sent()) != 0 {
		t.Fatalf("no assets must not email anyone: %v", f.sender.sent())
	}
	entries, err := f.audit.ListByUser(ctx, u.ID, 10)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != repository.ActionSwitchNoAssets {
		t.Fatalf("entries = %v, want single No Assets", entries)
	}
}

func TestDisclosure_ContactFailureIsIsolated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addUser(t, "owner@example.com")
	for _, c := range []string{"ok@example.com", "down@example.com", "ok2@example.com"} {
		if _, err := f.store.Contacts().Insert(ctx, u.ID, c); err != nil {
			t.Fatalf("contact: %v", err)
		}
	}
	payload, _ := vault.Encode(map[string]any{
		"recoveryMethods": map[string]any{"twoFactorBackups": []any{"00001111"}},
	}, "abcd")
	if _, err := f.store.Vault().Insert(ctx, repository.CreateVaultItemInput{
		UserID:           u.ID,
		Provider:         "google",
		Name:             "Gmail",
		EncryptedPayload: payload,
	}); err != nil {
		t.Fatalf("vault: %v", err)
	}
	f.sender.failTo["down@example.com"] = errors.New("mailbox unavailable")

	if err := f.scheduler.Disclosure.Trigger(ctx, u.ID); err != nil {
		t.Fatalf("trigger: %v", err)
	}

	sent := f.sender.sent()
	if len(sent) != 2 {
		t.Fatalf("sends = %v, want the two healthy contacts", sent)
	}

	entries, err := f.audit.ListByUser(ctx, u.ID, 10)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	// Más nuevas primero: Triggered al final del flujo, Send Failed antes.
	if len(entries) != 2 {
		t.Fatalf("entries = %v, want Send Failed + Triggered", entries)
	}
	if entries[0].Action != repository.ActionSwitchTriggered {
		t.Fatalf("latest = %q, want Disclosure Triggered", entries[0].Action)
	}
	if entries[1].Action != repository.ActionSwitchSendFailed {
		t.Fatalf("previous = %q, want Send Failed", entries[1].Action)
	}
	if entries[1].Details["error"] != "mailbox unavailable" {
		t.Fatalf("details = %v", entries[1].Details)
	}
}

func TestDisclosure_RepeatTriggersRepeatSends(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addUser(t, "owner@example.com")
	if _, err := f.store.Contacts().Insert(ctx, u.ID, "heir@example.com"); err != nil {
		t.Fatalf("contact: %v", err)
	}
	payload, _ := vault.Encode(map[string]any{"data": "x"}, "abcd")
	if _, err := f.store.Vault().Insert(ctx, repository.CreateVaultItemInput{
		UserID:           u.ID,
		Provider:         "custom",
		Name:             "Box",
		EncryptedPayload: payload,
	}); err != nil {
		t.Fatalf("vault: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := f.scheduler.Disclosure.Trigger(ctx, u.ID); err != nil {
			t.Fatalf("trigger %d: %v", i, err)
		}
	}
	if got := len(f.sender.sent()); got != 2 {
		t.Fatalf("sends = %d, want 2 (no hay idempotencia)", got)
	}
}
