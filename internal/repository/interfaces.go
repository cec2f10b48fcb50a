package repository

import (
	"context"

	"github.com/Popolzen/linkcut/internal/model"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

// LinkRepository описывает хранилище коротких ссылок.
// Уникальность short_code обязано обеспечивать само хранилище:
// Insert при занятом коде возвращает model.ErrDuplicateCode.
type LinkRepository interface {
	// FindByCode возвращает ссылку по короткому коду или model.ErrLinkNotFound
	FindByCode(ctx context.Context, code string) (model.Link, error)
	// FindByOriginalURL ищет существующую ссылку для пары (url, владелец).
	// Пустой userID означает анонимную ссылку.
	FindByOriginalURL(ctx context.Context, originalURL, userID string) (model.Link, error)
	// Insert сохраняет ссылку и возвращает её с присвоенным ID
	Insert(ctx context.Context, link model.Link) (model.Link, error)
	// Delete удаляет ссылку с проверкой владельца и возвращает удалённую запись
	Delete(ctx context.Context, id int64, userID string) (model.Link, error)
	// DeleteByID удаляет ссылку без проверки владельца (purge истёкших)
	DeleteByID(ctx context.Context, id int64) error
	// ListByUser возвращает ссылки пользователя в порядке создания
	ListByUser(ctx context.Context, userID string) ([]model.Link, error)
	// Stats возвращает количество ссылок и пользователей
	Stats(ctx context.Context) (urls int, users int, err error)
	Close() error
}

// UserRepository описывает хранилище учетных записей
type UserRepository interface {
	CreateUser(ctx context.Context, user model.User) error
	FindUserByLogin(ctx context.Context, login string) (model.User, error)
	FindUserByID(ctx context.Context, id string) (model.User, error)
}
