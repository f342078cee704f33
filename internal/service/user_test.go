package service

import (
	"context"
	"errors"
	"testing"

	"github.com/wanderlust/wanderlust/internal/form"
	"github.com/wanderlust/wanderlust/internal/metrics"
	"github.com/wanderlust/wanderlust/internal/testutil"
)

func newUserService(t *testing.T) (*UserService, *metrics.InMemoryRecorder) {
	t.Helper()
	rec := metrics.NewInMemory()
	svc, err := NewUserService(testutil.NewMemoryStore(), testutil.DiscardLogger(), rec)
	if err != nil {
		t.Fatalf("NewUserService: %v", err)
	}
	return svc, rec
}

func TestSignupAndAuthenticate(t *testing.T) {
	t.Parallel()
	svc, rec := newUserService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, &form.SignupInput{Username: "alice", Email: "alice@example.com", Password: "s3cret!"})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if user.PasswordHash == "" || user.PasswordHash == "s3cret!" {
		t.Errorf("PasswordHash = %q, want argon2 hash", user.PasswordHash)
	}

	got, err := svc.Authenticate(ctx, "alice", "s3cret!")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("Authenticate() user = %q, want %q", got.ID, user.ID)
	}

	snap := rec.Snapshot()
	if snap.Signups != 1 || snap.LoginsSucceeded != 1 {
		t.Errorf("metrics = %+v", snap)
	}
}

func TestSignup_Duplicates(t *testing.T) {
	t.Parallel()
	svc, _ := newUserService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, &form.SignupInput{Username: "alice", Email: "alice@example.com", Password: "s3cret!"}); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	_, err := svc.Signup(ctx, &form.SignupInput{Username: "alice", Email: "other@example.com", Password: "s3cret!"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate username error = %v, want ErrUsernameTaken", err)
	}

	_, err = svc.Signup(ctx, &form.SignupInput{Username: "bob", Email: "alice@example.com", Password: "s3cret!"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email error = %v, want ErrEmailTaken", err)
	}
}

func TestAuthenticate_Failures(t *testing.T) {
	t.Parallel()
	svc, rec := newUserService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, &form.SignupInput{Username: "alice", Email: "alice@example.com", Password: "s3cret!"}); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	if _, err := svc.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "s3cret!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user error = %v, want ErrInvalidCredentials", err)
	}
	if got := rec.Snapshot().LoginsFailed; got != 2 {
		t.Errorf("LoginsFailed = %d, want 2", got)
	}
}
