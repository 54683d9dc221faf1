package services_test

import (
	"errors"
	"testing"

	"bookswap/internal/domain"
	"bookswap/internal/repos"
	"bookswap/internal/services"
)

func newAuthService(t *testing.T) *services.AuthService {
	t.Helper()
	db := memdb(t)
	return services.NewAuthService(repos.NewUserRepo(db), "test-secret")
}

func TestSignupLoginRoundtrip(t *testing.T) {
	svc := newAuthService(t)

	tok, u, err := svc.Signup("Alice", "alice@test.local", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if tok == "" || u.ID == "" {
		t.Fatalf("signup returned token=%q user=%+v", tok, u)
	}
	if u.Hash == "hunter22" {
		t.Fatal("password stored in plaintext")
	}

	uid, err := svc.VerifyToken(tok)
	if err != nil {
		t.Fatal(err)
	}
	if uid != u.ID {
		t.Fatalf("token subject = %q, want %q", uid, u.ID)
	}

	me, err := svc.CurrentUser(tok)
	if err != nil {
		t.Fatal(err)
	}
	if me.Email != "alice@test.local" {
		t.Fatalf("current user = %+v", me)
	}

	tok2, _, err := svc.Login("alice@test.local", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if tok2 == "" {
		t.Fatal("login returned empty token")
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc := newAuthService(t)

	if _, _, err := svc.Signup("Alice", "alice@test.local", "hunter22"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Signup("Imposter", "ALICE@test.local", "hunter22"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate email (case-insensitive): want Conflict, got %v", err)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := newAuthService(t)

	if _, _, err := svc.Signup("Alice", "alice@test.local", "hunter22"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Login("alice@test.local", "wrong"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("bad password: want Unauthorized, got %v", err)
	}
	if _, _, err := svc.Login("nobody@test.local", "hunter22"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("unknown email: want Unauthorized, got %v", err)
	}
}

func TestVerifyToken_Garbage(t *testing.T) {
	svc := newAuthService(t)
	if _, err := svc.VerifyToken("not-a-token"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("want Unauthorized, got %v", err)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	a := newAuthService(t)
	b := services.NewAuthService(repos.NewUserRepo(memdb(t)), "other-secret")

	tok, _, err := a.Signup("Alice", "alice@test.local", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.VerifyToken(tok); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("foreign token: want Unauthorized, got %v", err)
	}
}
