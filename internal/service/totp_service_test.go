package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-hub/internal/domain"
)

func TestTOTPSetup(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo(t, seedUser(5, "alice"))
	svc := NewTOTPService(users, "prompt-hub")

	_, err := svc.Setup(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	enrollment, err := svc.Setup(ctx, actor(5))
	require.NoError(t, err)
	assert.NotEmpty(t, enrollment.Secret)
	assert.Contains(t, enrollment.QRURI, "otpauth://totp/")
	assert.Contains(t, enrollment.QRURI, "prompt-hub")
	assert.True(t, strings.Contains(enrollment.QRURI, "alice%40example.com") ||
		strings.Contains(enrollment.QRURI, "alice@example.com"))

	// nothing persisted until verification
	stored, err := users.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.False(t, stored.TOTPEnabled)
	assert.Empty(t, stored.TOTPSecret)
}

func TestTOTPVerifySetup(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo(t, seedUser(5, "alice"))
	svc := NewTOTPService(users, "prompt-hub")

	enrollment, err := svc.Setup(ctx, actor(5))
	require.NoError(t, err)

	err = svc.VerifySetup(ctx, actor(5), enrollment.Secret, "000000")
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.VerifySetup(ctx, actor(5), enrollment.Secret, code))

	stored, err := users.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.True(t, stored.TOTPEnabled)
	assert.Equal(t, enrollment.Secret, stored.TOTPSecret)

	// re-enrollment of an enabled account is refused
	_, err = svc.Setup(ctx, actor(5))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	err = svc.VerifySetup(ctx, actor(5), enrollment.Secret, code)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTOTPDeactivate(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo(t, seedUser(5, "alice"))
	svc := NewTOTPService(users, "prompt-hub")

	err := svc.Deactivate(ctx, actor(5))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	enrollment, err := svc.Setup(ctx, actor(5))
	require.NoError(t, err)
	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.VerifySetup(ctx, actor(5), enrollment.Secret, code))

	enabled, err := svc.Enabled(ctx, actor(5))
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, svc.Deactivate(ctx, actor(5)))

	stored, err := users.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.False(t, stored.TOTPEnabled)
	assert.Empty(t, stored.TOTPSecret)
}
