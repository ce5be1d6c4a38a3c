package service

import (
	"testing"

	"ai-imagegen-be/internal/config"
	"ai-imagegen-be/internal/repository/memory"
	"ai-imagegen-be/internal/repository/unitofwork"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoginURLSavesState(t *testing.T) {
	db := setupTestDB(t)
	stateRepo := memory.NewStateRepository()
	svc := NewOAuthService(
		unitofwork.NewRepositoryFactory(db),
		stateRepo,
		config.OAuthConfig{GoogleClientID: "cid", GoogleClientSecret: "secret", GoogleRedirectURL: "http://localhost/cb"},
		testJWTConfig(),
		3,
		noopLogger{},
	)

	res, err := svc.GetLoginURL("google")
	require.NoError(t, err)
	assert.Equal(t, "google", res.Provider)
	assert.Contains(t, res.URL, "accounts.google.com")
	assert.Contains(t, res.URL, "state=")

	_, err = svc.GetLoginURL("github")
	assert.Error(t, err)
}

func TestStateRepositoryConsumeIsSingleUse(t *testing.T) {
	repo := memory.NewStateRepository()

	repo.Save("state-1", "google")

	provider, ok := repo.Consume("state-1")
	assert.True(t, ok)
	assert.Equal(t, "google", provider)

	_, ok = repo.Consume("state-1")
	assert.False(t, ok)

	_, ok = repo.Consume("never-saved")
	assert.False(t, ok)
}
