package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/fitplanhq/fitplan-backend/internal/errors"
)

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, "a@example.com", "secret123")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "a@example.com", user.Email)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	logged, err := svc.Login(ctx, "a@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "a@example.com", "other456")
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}

func TestLoginInvalidCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@example.com", "secret123")
	require.NoError(t, err)

	// Wrong password and unknown email fail identically.
	_, wrongPassword := svc.Login(ctx, "a@example.com", "nope")
	_, unknownEmail := svc.Login(ctx, "ghost@example.com", "secret123")
	assert.Equal(t, ErrInvalidCredentials, wrongPassword)
	assert.Equal(t, ErrInvalidCredentials, unknownEmail)
}
