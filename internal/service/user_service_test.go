package service

import (
	"context"
	"testing"

	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (IUserService, unitofwork.RepositoryFactory) {
	t.Helper()

	db := setupTestDB(t)
	uowFactory := unitofwork.NewRepositoryFactory(db)
	return NewUserService(uowFactory), uowFactory
}

func TestGetProfileJoinsUserAndCredits(t *testing.T) {
	svc, uowFactory := newUserService(t)
	ctx := context.Background()

	user := seedUser(t, uowFactory, 7)

	profile, err := svc.GetProfile(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, user.Email, profile.Email)
	assert.Equal(t, "Test User", profile.FullName)
	assert.Equal(t, 7, profile.Credits)
	assert.Equal(t, 0, profile.ImagesGenerated)
}

func TestUpdateProfile(t *testing.T) {
	svc, uowFactory := newUserService(t)
	ctx := context.Background()

	user := seedUser(t, uowFactory, 0)

	updated, err := svc.UpdateProfile(ctx, user.Id, &dto.UpdateProfileRequest{FullName: "Renamed User"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed User", updated.FullName)
}

func TestAddCredits(t *testing.T) {
	svc, uowFactory := newUserService(t)
	ctx := context.Background()

	user := seedUser(t, uowFactory, 2)

	balance, err := svc.AddCredits(ctx, &dto.AddCreditsRequest{UserId: user.Id, Credits: 10})
	require.NoError(t, err)
	assert.Equal(t, 12, balance.Credits)

	_, err = svc.AddCredits(ctx, &dto.AddCreditsRequest{UserId: uuid.New(), Credits: 10})
	assert.Error(t, err)
}

func TestDeleteAccountSoftDeletes(t *testing.T) {
	svc, uowFactory := newUserService(t)
	ctx := context.Background()

	user := seedUser(t, uowFactory, 0)

	require.NoError(t, svc.DeleteAccount(ctx, user.Id))

	_, err := svc.GetProfile(ctx, user.Id)
	assert.Error(t, err)
}
