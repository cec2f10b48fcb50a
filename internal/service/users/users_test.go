package users

import (
	"context"
	"testing"

	"github.com/Popolzen/linkcut/internal/model"
	"github.com/Popolzen/linkcut/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	service := NewService(memory.NewRepository())

	user, err := service.Register(context.Background(), "vasya", "secret123")

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "vasya", user.Login)
	// Пароль не хранится открытым текстом
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NotEmpty(t, user.PasswordHash)
}

func TestRegister_DuplicateLogin(t *testing.T) {
	service := NewService(memory.NewRepository())
	ctx := context.Background()

	_, err := service.Register(ctx, "vasya", "secret123")
	require.NoError(t, err)

	_, err = service.Register(ctx, "vasya", "another")
	assert.ErrorIs(t, err, model.ErrUserExists)
}

func TestRegister_EmptyFields(t *testing.T) {
	service := NewService(memory.NewRepository())
	ctx := context.Background()

	_, err := service.Register(ctx, "", "secret123")
	assert.ErrorIs(t, err, model.ErrInvalidFormat)

	_, err = service.Register(ctx, "vasya", "")
	assert.ErrorIs(t, err, model.ErrInvalidFormat)
}

func TestAuthenticate_Success(t *testing.T) {
	service := NewService(memory.NewRepository())
	ctx := context.Background()

	registered, err := service.Register(ctx, "vasya", "secret123")
	require.NoError(t, err)

	user, err := service.Authenticate(ctx, "vasya", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	service := NewService(memory.NewRepository())
	ctx := context.Background()

	_, err := service.Register(ctx, "vasya", "secret123")
	require.NoError(t, err)

	_, err = service.Authenticate(ctx, "vasya", "wrong")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestAuthenticate_UnknownLogin(t *testing.T) {
	service := NewService(memory.NewRepository())

	_, err := service.Authenticate(context.Background(), "nobody", "secret123")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}
