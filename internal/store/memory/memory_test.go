package memory

import (
	"context"
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/dropDatabas3/haven/internal/domain/repository"
)

func TestUsers_CreateAndLookup(t *testing.T) {
	st := New()
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.MinCost)
	u, ident, err := st.Users().Create(ctx, repository.CreateUserInput{
		Email:        "Ana@Example.com",
		Name:         "Ana",
		PasswordHash: string(hash),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == "" || ident.Provider != "password" {
		t.Fatalf("user = %+v ident = %+v", u, ident)
	}

	// Lookup por email es case-insensitive.
	got, gotIdent, err := st.Users().GetByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("got %q, want %q", got.ID, u.ID)
	}
	if !st.Users().CheckPassword(gotIdent.PasswordHash, "secret-pass") {
		t.Fatal("password must verify")
	}
	if st.Users().CheckPassword(gotIdent.PasswordHash, "wrong") {
		t.Fatal("wrong password must not verify")
	}

	if _, _, err := st.Users().Create(ctx, repository.CreateUserInput{
		Email: "ANA@example.com",
	}); !repository.IsConflict(err) {
		t.Fatalf("duplicate email err = %v, want conflict", err)
	}
}

func TestUsers_ListPaginates(t *testing.T) {
	st := New()
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		if _, _, err := st.Users().Create(ctx, repository.CreateUserInput{
			Email: fmt.Sprintf("u%d@example.com", i),
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	seen := map[string]bool{}
	cursor := ""
	pages := 0
	for {
		page, next, err := st.Users().List(ctx, repository.ListUsersFilter{PageSize: 3, Cursor: cursor})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		pages++
		for _, u := range page {
			if seen[u.ID] {
				t.Fatalf("user %s repeated across pages", u.ID)
			}
			seen[u.ID] = true
		}
		if next == "" {
			break
		}
		cursor = next
	}
	if len(seen) != 7 {
		t.Fatalf("saw %d users, want 7", len(seen))
	}
	if pages != 3 {
		t.Fatalf("pages = %d, want 3", pages)
	}
}

func TestInactivity_CounterClampAndToken(t *testing.T) {
	st := New()
	ctx := context.Background()

	if err := st.Inactivity().UpsertCounter(ctx, "u1", -5); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	rec, err := st.Inactivity().Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.LastCheckedAt != 0 {
		t.Fatalf("counter = %d, want clamp a 0", rec.LastCheckedAt)
	}

	// SetToken no toca el contador y UpsertCounter no toca el token.
	if err := st.Inactivity().UpsertCounter(ctx, "u1", 9); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := st.Inactivity().SetToken(ctx, "u1", "123456"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	rec, _ = st.Inactivity().Get(ctx, "u1")
	if rec.LastCheckedAt != 9 || rec.Token != "123456" {
		t.Fatalf("rec = %+v", rec)
	}
	if err := st.Inactivity().UpsertCounter(ctx, "u1", 0); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	rec, _ = st.Inactivity().Get(ctx, "u1")
	if rec.Token != "123456" {
		t.Fatalf("reset must preserve token, rec = %+v", rec)
	}

	found, err := st.Inactivity().FindByToken(ctx, "123456")
	if err != nil {
		t.Fatalf("find by token: %v", err)
	}
	if found.UserID != "u1" {
		t.Fatalf("found = %+v", found)
	}
	if _, err := st.Inactivity().FindByToken(ctx, "000000"); !repository.IsNotFound(err) {
		t.Fatalf("unknown token err = %v", err)
	}
}

func TestContacts_OrderAndDelete(t *testing.T) {
	st := New()
	ctx := context.Background()

	first, err := st.Contacts().Insert(ctx, "u1", "heir@example.com")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	// Invitaciones duplicadas son válidas.
	if _, err := st.Contacts().Insert(ctx, "u1", "heir@example.com"); err != nil {
		t.Fatalf("duplicate insert: %v", err)
	}
	if _, err := st.Contacts().Insert(ctx, "u2", "heir@example.com"); err != nil {
		t.Fatalf("insert other user: %v", err)
	}

	list, err := st.Contacts().ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list = %v", list)
	}
	if list[0].VerificationStatus != repository.ContactPending {
		t.Fatalf("status = %q", list[0].VerificationStatus)
	}

	// FindByEmail devuelve el más viejo, de cualquier usuario.
	found, err := st.Contacts().FindByEmail(ctx, "heir@example.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != first.ID {
		t.Fatalf("found %q, want oldest %q", found.ID, first.ID)
	}

	if err := st.Contacts().SetVerified(ctx, first.ID); err != nil {
		t.Fatalf("verify: %v", err)
	}
	list, _ = st.Contacts().ListByUser(ctx, "u1")
	if list[0].VerificationStatus != repository.ContactVerified {
		t.Fatalf("status = %q, want verified", list[0].VerificationStatus)
	}

	// DeleteByEmail saca de a uno.
	if err := st.Contacts().DeleteByEmail(ctx, "u1", "heir@example.com"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ = st.Contacts().ListByUser(ctx, "u1")
	if len(list) != 1 {
		t.Fatalf("list = %v, want 1 remaining", list)
	}
	if err := st.Contacts().DeleteByEmail(ctx, "u1", "nobody@example.com"); !repository.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestVault_CRUD(t *testing.T) {
	st := New()
	ctx := context.Background()

	item, err := st.Vault().Insert(ctx, repository.CreateVaultItemInput{
		UserID:   "u1",
		Provider: "google",
		Name:     "Gmail",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if item.RecoveryStatus != repository.RecoveryUnverified {
		t.Fatalf("status = %q, want unverified", item.RecoveryStatus)
	}

	name := "Gmail personal"
	if err := st.Vault().Update(ctx, item.ID, repository.UpdateVaultItemInput{Name: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := st.Vault().GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != name || got.Provider != "google" {
		t.Fatalf("got = %+v", got)
	}

	if err := st.Vault().Delete(ctx, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.Vault().GetByID(ctx, item.ID); !repository.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestAudit_NewestFirstWithLimit(t *testing.T) {
	st := New()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := st.Audit().Append(ctx, repository.AuditEntry{
			UserID: "u1",
			Action: fmt.Sprintf("Action %d", i),
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	entries, err := st.Audit().ListByUser(ctx, "u1", 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %v, want 3", entries)
	}
	if entries[0].Action != "Action 4" {
		t.Fatalf("latest = %q, want Action 4", entries[0].Action)
	}
}
