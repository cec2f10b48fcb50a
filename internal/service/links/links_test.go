package links

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Popolzen/linkcut/internal/model"
	"github.com/Popolzen/linkcut/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// === Сквозные сценарии на in-memory хранилище ===

func TestRoundTrip_RegisterThenResolve(t *testing.T) {
	repo := memory.NewRepository()
	registrar := NewRegistrar(repo, &fakeArtifacts{}, testBaseURL)
	resolver := NewResolver(repo, &fakeArtifacts{})
	ctx := context.Background()

	link, err := registrar.Register(ctx, "https://example.com", "", "", nil)
	require.NoError(t, err)
	assert.Len(t, link.ShortCode, 6)

	res, err := resolver.Resolve(ctx, link.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, StatusRedirect, res.Status)
	assert.Equal(t, "https://example.com", res.OriginalURL)

	// Повторная анонимная регистрация того же URL возвращает тот же код
	again, err := registrar.Register(ctx, "https://example.com", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, link.ShortCode, again.ShortCode)
}

func TestIdempotence_OneStoredRecord(t *testing.T) {
	repo := memory.NewRepository()
	registrar := NewRegistrar(repo, &fakeArtifacts{}, testBaseURL)
	ctx := context.Background()

	first, err := registrar.Register(ctx, "https://example.com", "user-1", "", nil)
	require.NoError(t, err)
	second, err := registrar.Register(ctx, "https://example.com", "user-1", "", nil)
	require.NoError(t, err)

	assert.Equal(t, first.ShortCode, second.ShortCode)

	links, err := registrar.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, links, 1)
}

func TestUniqueness_ManyRegistrations(t *testing.T) {
	repo := memory.NewRepository()
	registrar := NewRegistrar(repo, &fakeArtifacts{}, testBaseURL)
	ctx := context.Background()

	codes := make(map[string]bool)
	for i := 0; i < 200; i++ {
		link, err := registrar.Register(ctx, fmt.Sprintf("https://example.com/page/%d", i), "user-1", "", nil)
		require.NoError(t, err)
		assert.False(t, codes[link.ShortCode], "код %s выдан дважды", link.ShortCode)
		codes[link.ShortCode] = true
	}
}

func TestExpiration_PurgedFromStore(t *testing.T) {
	repo := memory.NewRepository()
	artifacts := &fakeArtifacts{}
	registrar := NewRegistrar(repo, artifacts, testBaseURL)
	resolver := NewResolver(repo, artifacts)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	link, err := registrar.Register(ctx, "https://example.com", "user-1", "", &past)
	require.NoError(t, err)

	res, err := resolver.Resolve(ctx, link.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, res.Status)

	// После purge ссылки в хранилище нет
	_, err = repo.FindByCode(ctx, link.ShortCode)
	assert.ErrorIs(t, err, model.ErrLinkNotFound)

	res, err = resolver.Resolve(ctx, link.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, StatusNotFound, res.Status)
}

func TestAliasCollision_StoreKeepsOneLink(t *testing.T) {
	repo := memory.NewRepository()
	registrar := NewRegistrar(repo, &fakeArtifacts{}, testBaseURL)
	ctx := context.Background()

	_, err := registrar.Register(ctx, "https://first.com", "user-1", "abc123", nil)
	require.NoError(t, err)

	_, err = registrar.Register(ctx, "https://second.com", "user-2", "abc123", nil)
	assert.ErrorIs(t, err, model.ErrAliasTaken)

	link, err := repo.FindByCode(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://first.com", link.OriginalURL)
}

func TestAccessControl_CrossOwnerDelete(t *testing.T) {
	repo := memory.NewRepository()
	registrar := NewRegistrar(repo, &fakeArtifacts{}, testBaseURL)
	resolver := NewResolver(repo, &fakeArtifacts{})
	ctx := context.Background()

	link, err := registrar.Register(ctx, "https://example.com", "owner-B", "", nil)
	require.NoError(t, err)

	_, err = registrar.Delete(ctx, link.ID, "owner-A")
	assert.ErrorIs(t, err, model.ErrNotAuthorized)

	// Ссылка по-прежнему разрешается
	res, err := resolver.Resolve(ctx, link.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, StatusRedirect, res.Status)
}

func TestOwnedAndAnonymous_SeparateDedup(t *testing.T) {
	repo := memory.NewRepository()
	registrar := NewRegistrar(repo, &fakeArtifacts{}, testBaseURL)
	ctx := context.Background()

	owned, err := registrar.Register(ctx, "https://example.com", "user-1", "", nil)
	require.NoError(t, err)
	anon, err := registrar.Register(ctx, "https://example.com", "", "", nil)
	require.NoError(t, err)

	// Владельческая и анонимная ссылки на один URL сосуществуют
	assert.NotEqual(t, owned.ShortCode, anon.ShortCode)
}

func TestDelete_OwnerRule(t *testing.T) {
	tests := []struct {
		name      string
		owner     string
		requester string
		wantOK    bool
	}{
		{name: "Владелец", owner: "user-1", requester: "user-1", wantOK: true},
		{name: "Чужая ссылка", owner: "user-1", requester: "user-2", wantOK: false},
		{name: "Анонимная ссылка", owner: "", requester: "user-1", wantOK: false},
		{name: "Анонимный запрос", owner: "user-1", requester: "", wantOK: false},
		{name: "Оба анонимны", owner: "", requester: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewRepository()
			registrar := NewRegistrar(repo, &fakeArtifacts{}, testBaseURL)
			ctx := context.Background()

			link, err := registrar.Register(ctx, "https://example.com", tt.owner, "", nil)
			require.NoError(t, err)

			_, err = registrar.Delete(ctx, link.ID, tt.requester)
			if tt.wantOK {
				require.NoError(t, err)
				_, err = repo.FindByCode(ctx, link.ShortCode)
				assert.ErrorIs(t, err, model.ErrLinkNotFound)
			} else {
				assert.ErrorIs(t, err, model.ErrNotAuthorized)
				_, err = repo.FindByCode(ctx, link.ShortCode)
				assert.NoError(t, err)
			}
		})
	}
}
