package service

import (
	"context"
	"testing"

	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/repository/unitofwork"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatService(t *testing.T) (IChatService, unitofwork.RepositoryFactory) {
	t.Helper()

	db := setupTestDB(t)
	uowFactory := unitofwork.NewRepositoryFactory(db)
	return NewChatService(uowFactory), uowFactory
}

func TestThreadLifecycle(t *testing.T) {
	svc, uowFactory := newChatService(t)
	ctx := context.Background()

	user := seedUser(t, uowFactory, 0)

	created, err := svc.CreateThread(ctx, user.Id, &dto.CreateThreadRequest{Title: "Landscapes"})
	require.NoError(t, err)
	assert.Equal(t, "Landscapes", created.Title)

	renamed, err := svc.RenameThread(ctx, user.Id, created.Id, &dto.RenameThreadRequest{Title: "Mountains"})
	require.NoError(t, err)
	assert.Equal(t, "Mountains", renamed.Title)

	threads, err := svc.ListThreads(ctx, user.Id)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, "Mountains", threads[0].Title)

	detail, err := svc.GetThread(ctx, user.Id, created.Id)
	require.NoError(t, err)
	assert.Empty(t, detail.Messages)

	require.NoError(t, svc.DeleteThread(ctx, user.Id, created.Id))

	threads, err = svc.ListThreads(ctx, user.Id)
	require.NoError(t, err)
	assert.Empty(t, threads)
}

func TestThreadOwnership(t *testing.T) {
	svc, uowFactory := newChatService(t)
	ctx := context.Background()

	owner := seedUser(t, uowFactory, 0)
	intruder := seedUser(t, uowFactory, 0)

	created, err := svc.CreateThread(ctx, owner.Id, &dto.CreateThreadRequest{Title: "Private"})
	require.NoError(t, err)

	_, err = svc.GetThread(ctx, intruder.Id, created.Id)
	assert.Error(t, err)

	_, err = svc.RenameThread(ctx, intruder.Id, created.Id, &dto.RenameThreadRequest{Title: "Hijacked"})
	assert.Error(t, err)

	err = svc.DeleteThread(ctx, intruder.Id, created.Id)
	assert.Error(t, err)

	// Still intact for the owner
	detail, err := svc.GetThread(ctx, owner.Id, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "Private", detail.Thread.Title)
}

func TestListThreadsOnlyOwn(t *testing.T) {
	svc, uowFactory := newChatService(t)
	ctx := context.Background()

	alice := seedUser(t, uowFactory, 0)
	bob := seedUser(t, uowFactory, 0)

	_, err := svc.CreateThread(ctx, alice.Id, &dto.CreateThreadRequest{Title: "Alice 1"})
	require.NoError(t, err)
	_, err = svc.CreateThread(ctx, bob.Id, &dto.CreateThreadRequest{Title: "Bob 1"})
	require.NoError(t, err)

	threads, err := svc.ListThreads(ctx, alice.Id)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, "Alice 1", threads[0].Title)
}

func TestAppendMessageOrdersByCreation(t *testing.T) {
	svc, uowFactory := newChatService(t)
	ctx := context.Background()

	user := seedUser(t, uowFactory, 0)

	created, err := svc.CreateThread(ctx, user.Id, &dto.CreateThreadRequest{Title: "Sketches"})
	require.NoError(t, err)

	first, err := svc.AppendMessage(ctx, user.Id, created.Id, &dto.AppendMessageRequest{
		Role:    "user",
		Content: "draw a cat",
	})
	require.NoError(t, err)
	assert.Equal(t, "user", first.Role)

	_, err = svc.AppendMessage(ctx, user.Id, created.Id, &dto.AppendMessageRequest{
		Role:    "assistant",
		Content: "here is a cat",
	})
	require.NoError(t, err)

	detail, err := svc.GetThread(ctx, user.Id, created.Id)
	require.NoError(t, err)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, "draw a cat", detail.Messages[0].Content)
	assert.Equal(t, "assistant", detail.Messages[1].Role)

	// Appending bumps the thread so it sorts first in listings
	assert.False(t, detail.Thread.UpdatedAt.Before(created.UpdatedAt))
}

func TestAppendMessageForeignThreadRejected(t *testing.T) {
	svc, uowFactory := newChatService(t)
	ctx := context.Background()

	owner := seedUser(t, uowFactory, 0)
	intruder := seedUser(t, uowFactory, 0)

	created, err := svc.CreateThread(ctx, owner.Id, &dto.CreateThreadRequest{Title: "Private"})
	require.NoError(t, err)

	_, err = svc.AppendMessage(ctx, intruder.Id, created.Id, &dto.AppendMessageRequest{
		Role:    "user",
		Content: "peek",
	})
	assert.Error(t, err)
}
