package usecase

import (
	"context"
	"testing"

	"travel-booking/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterThenLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	registered, err := f.svc.Auth.Register(ctx, &request.RegisterRequest{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.NotEmpty(t, registered.UserID)

	loggedIn, err := f.svc.Auth.Login(ctx, &request.LoginRequest{Email: "ada@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, loggedIn.UserID)

	_, err = f.svc.Auth.Login(ctx, &request.LoginRequest{Email: "ada@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_PasswordIsHashed(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Auth.Register(context.Background(), &request.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	for _, u := range f.store.users {
		assert.Equal(t, resp.UserID, u.ID.String())
		assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
		assert.NotEmpty(t, u.PasswordHash)
	}
}

func TestAuthService_LoginUnknownEmail(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Auth.Login(context.Background(), &request.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Auth.Register(ctx, &request.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = f.svc.Auth.Register(ctx, &request.RegisterRequest{Name: "Other", Email: "ADA@example.com", Password: "another-pass"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}
