package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/Popolzen/linkcut/internal/model"
	"github.com/Popolzen/linkcut/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service отвечает за учетные записи: регистрацию и проверку пароля
type Service struct {
	repo repository.UserRepository
}

func NewService(repo repository.UserRepository) Service {
	return Service{repo: repo}
}

// Register создает пользователя с bcrypt-хэшем пароля.
// Занятый логин — model.ErrUserExists.
func (s Service) Register(ctx context.Context, login, password string) (model.User, error) {
	if login == "" || password == "" {
		return model.User{}, fmt.Errorf("логин и пароль обязательны: %w", model.ErrInvalidFormat)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("не удалось захэшировать пароль: %w", err)
	}

	user := model.User{
		ID:           uuid.New().String(),
		Login:        login,
		PasswordHash: string(hash),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return model.User{}, err
	}

	return user, nil
}

// Authenticate сверяет пароль с хэшем.
// Неизвестный логин и неверный пароль снаружи неразличимы.
func (s Service) Authenticate(ctx context.Context, login, password string) (model.User, error) {
	user, err := s.repo.FindUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.User{}, model.ErrInvalidCredentials
		}
		return model.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return model.User{}, model.ErrInvalidCredentials
	}

	return user, nil
}
