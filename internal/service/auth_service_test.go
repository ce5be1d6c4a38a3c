package service

import (
	"context"
	"testing"
	"time"

	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/repository/specification"
	"ai-imagegen-be/internal/repository/unitofwork"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (IAuthService, unitofwork.RepositoryFactory, *fakeMailer) {
	t.Helper()

	db := setupTestDB(t)
	uowFactory := unitofwork.NewRepositoryFactory(db)
	mail := &fakeMailer{}
	svc := NewAuthService(uowFactory, mail, nil, testJWTConfig(), 3, noopLogger{})
	return svc, uowFactory, mail
}

func TestRegisterCreatesProfileWithInitialCredits(t *testing.T) {
	svc, uowFactory, _ := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "new@example.com",
		FullName: "New User",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", res.Email)

	uow := uowFactory.NewUnitOfWork(ctx)
	profile, err := uow.ProfileRepository().FindOne(ctx, specification.UserOwnedBy{UserID: res.Id})
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, 3, profile.Credits)
	assert.Equal(t, 0, profile.ImagesGenerated)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	req := &dto.RegisterRequest{
		Email:    "dupe@example.com",
		FullName: "First",
		Password: "secret123",
	}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.Error(t, err)
}

func TestLoginAndRefresh(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "login@example.com",
		FullName: "Login User",
		Password: "secret123",
	})
	require.NoError(t, err)

	res, err := svc.Login(ctx, &dto.LoginRequest{
		Email:      "login@example.com",
		Password:   "secret123",
		RememberMe: true,
	}, "127.0.0.1", "go-test")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	require.NotEmpty(t, res.RefreshToken)

	refreshed, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: res.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, res.User.Id, refreshed.User.Id)

	// Logout revokes the session
	require.NoError(t, svc.Logout(ctx, res.RefreshToken))
	_, err = svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: res.RefreshToken})
	assert.Error(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "wrongpw@example.com",
		FullName: "User",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{
		Email:    "wrongpw@example.com",
		Password: "not-the-password",
	}, "127.0.0.1", "go-test")
	assert.Error(t, err)
}

func TestResetPasswordFlow(t *testing.T) {
	svc, _, mail := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "reset@example.com",
		FullName: "Reset User",
		Password: "oldpassword",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, &dto.ForgotPasswordRequest{Email: "reset@example.com"}))

	// The mail send is async
	assert.Eventually(t, func() bool { return len(mail.sentResetTokens()) == 1 }, time.Second, 10*time.Millisecond)
	token := mail.sentResetTokens()[0]

	err = svc.ResetPassword(ctx, &dto.ResetPasswordRequest{
		Token:           token,
		NewPassword:     "newpassword",
		ConfirmPassword: "newpassword",
	})
	require.NoError(t, err)

	// Old password no longer works, new one does
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "reset@example.com", Password: "oldpassword"}, "", "")
	assert.Error(t, err)
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "reset@example.com", Password: "newpassword"}, "", "")
	assert.NoError(t, err)

	// Token is single-use
	err = svc.ResetPassword(ctx, &dto.ResetPasswordRequest{
		Token:           token,
		NewPassword:     "anotherpassword",
		ConfirmPassword: "anotherpassword",
	})
	assert.Error(t, err)
}

func TestForgotPasswordUnknownEmailDoesNotLeak(t *testing.T) {
	svc, _, mail := newAuthService(t)

	err := svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{Email: "nobody@example.com"})
	assert.NoError(t, err)
	assert.Empty(t, mail.sentResetTokens())
}
