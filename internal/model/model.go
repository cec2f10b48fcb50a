package model

import (
	"errors"
	"time"
)

// Link представляет запись о короткой ссылке
type Link struct {
	ID          int64      `json:"id"`
	ShortCode   string     `json:"short_code"`
	OriginalURL string     `json:"original_url"`
	UserID      string     `json:"user_id,omitempty"` // пустая строка = анонимная ссылка
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	QRPath      string     `json:"qr_path,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsAnonymous сообщает, что у ссылки нет владельца
func (l Link) IsAnonymous() bool {
	return l.UserID == ""
}

// IsExpired проверяет срок действия ссылки относительно переданного момента
func (l Link) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

// User представляет учетную запись
type User struct {
	ID           string `json:"id"`
	Login        string `json:"login"`
	PasswordHash string `json:"-"`
}

// ShortenRequest тело запроса на создание короткой ссылки
type ShortenRequest struct {
	URL         string `json:"url"`
	CustomAlias string `json:"custom_alias,omitempty"`
	ExpiresAt   string `json:"expires_at,omitempty"`
}

// ShortenResponse ответ на создание короткой ссылки
type ShortenResponse struct {
	Result string `json:"result"`
	QRPath string `json:"qr_path,omitempty"`
}

// LinkPair представляет пару сокращённого и оригинального URL для выдачи пользователю
type LinkPair struct {
	ID          int64  `json:"id"`
	ShortURL    string `json:"short_url"`
	OriginalURL string `json:"original_url"`
	ExpiresAt   string `json:"expires_at,omitempty"`
}

// Ошибки доменной логики. Проверяются через errors.Is по всей цепочке.
var (
	ErrDuplicateCode      = errors.New("short code already exists")
	ErrAliasTaken         = errors.New("custom alias already taken")
	ErrCodeSpaceExhausted = errors.New("failed to pick a unique short code")
	ErrInvalidFormat      = errors.New("invalid format")
	ErrLinkNotFound       = errors.New("link not found")
	ErrLinkExpired        = errors.New("link has expired")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrUserNotFound       = errors.New("user not found")
)
