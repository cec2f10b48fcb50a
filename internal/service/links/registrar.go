package links

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Popolzen/linkcut/internal/generator"
	"github.com/Popolzen/linkcut/internal/model"
	"github.com/Popolzen/linkcut/internal/repository"
)

// maxAttempts ограничивает перебор случайных кодов.
// При 62^6 комбинациях до лимита дело доходить не должно.
const maxAttempts = 10

// ArtifactStore хранит QR-изображения ссылок
type ArtifactStore interface {
	Render(code, publicURL string) (string, error)
	Remove(code string) error
}

// Registrar создает и удаляет короткие ссылки.
// Единственный арбитр уникальности кода — Insert хранилища:
// предварительных проверок "кода еще нет" здесь намеренно нет.
type Registrar struct {
	repo      repository.LinkRepository
	artifacts ArtifactStore
	baseURL   string
}

func NewRegistrar(repo repository.LinkRepository, artifacts ArtifactStore, baseURL string) Registrar {
	return Registrar{
		repo:      repo,
		artifacts: artifacts,
		baseURL:   baseURL,
	}
}

// Register создает короткую ссылку для originalURL.
// Пустой userID означает анонимную ссылку, пустой customAlias — случайный код.
// Повторный вызов с той же парой (originalURL, владелец) возвращает
// существующую ссылку без изменений.
func (r Registrar) Register(ctx context.Context, originalURL, userID, customAlias string, expiresAt *time.Time) (model.Link, error) {
	// Дедупликация: у владельца (или анонима) уже есть ссылка на этот URL
	existing, err := r.repo.FindByOriginalURL(ctx, originalURL, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, model.ErrLinkNotFound) {
		return model.Link{}, err
	}

	if customAlias != "" {
		return r.registerAlias(ctx, originalURL, userID, customAlias, expiresAt)
	}
	return r.registerGenerated(ctx, originalURL, userID, expiresAt)
}

// registerAlias сохраняет ссылку с пользовательским кодом.
// Занятый алиас — терминальная ошибка, повтор с тем же кодом бессмыслен.
func (r Registrar) registerAlias(ctx context.Context, originalURL, userID, alias string, expiresAt *time.Time) (model.Link, error) {
	if !generator.ValidCode(alias) {
		return model.Link{}, fmt.Errorf("алиас %q: %w", alias, model.ErrInvalidFormat)
	}

	link := model.Link{
		ShortCode:   alias,
		OriginalURL: originalURL,
		UserID:      userID,
		ExpiresAt:   expiresAt,
		QRPath:      r.renderQR(alias),
	}

	stored, err := r.repo.Insert(ctx, link)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateCode) {
			return model.Link{}, model.ErrAliasTaken
		}
		return model.Link{}, err
	}

	return stored, nil
}

// registerGenerated подбирает случайный код, коллизия на вставке
// приводит к генерации нового кода
func (r Registrar) registerGenerated(ctx context.Context, originalURL, userID string, expiresAt *time.Time) (model.Link, error) {
	for range maxAttempts {
		code := generator.Generate(generator.DefaultLength)

		link := model.Link{
			ShortCode:   code,
			OriginalURL: originalURL,
			UserID:      userID,
			ExpiresAt:   expiresAt,
			QRPath:      r.renderQR(code),
		}

		stored, err := r.repo.Insert(ctx, link)
		if err != nil {
			if errors.Is(err, model.ErrDuplicateCode) {
				continue
			}
			return model.Link{}, err
		}
		return stored, nil
	}

	return model.Link{}, fmt.Errorf("%w за %d попыток", model.ErrCodeSpaceExhausted, maxAttempts)
}

// Delete удаляет ссылку вместе с её QR-артефактом.
// Удалять может только владелец, чужая или анонимная ссылка — ErrNotAuthorized.
func (r Registrar) Delete(ctx context.Context, id int64, requesterID string) (model.Link, error) {
	if requesterID == "" {
		return model.Link{}, model.ErrNotAuthorized
	}

	deleted, err := r.repo.Delete(ctx, id, requesterID)
	if err != nil {
		if errors.Is(err, model.ErrLinkNotFound) {
			// Чужая ссылка и несуществующая снаружи неразличимы
			return model.Link{}, model.ErrNotAuthorized
		}
		return model.Link{}, err
	}

	r.removeQR(deleted)

	return deleted, nil
}

// ListByUser возвращает ссылки владельца, старые первыми
func (r Registrar) ListByUser(ctx context.Context, userID string) ([]model.Link, error) {
	if userID == "" {
		return nil, model.ErrNotAuthorized
	}
	return r.repo.ListByUser(ctx, userID)
}

// PublicURL собирает полный адрес короткой ссылки
func (r Registrar) PublicURL(code string) string {
	return r.baseURL + "/" + code
}

// renderQR генерирует артефакт. Ошибка генерации не блокирует
// создание ссылки: пишем предупреждение и продолжаем без QR.
func (r Registrar) renderQR(code string) string {
	if r.artifacts == nil {
		return ""
	}

	path, err := r.artifacts.Render(code, r.PublicURL(code))
	if err != nil {
		log.Printf("QR для %s не сгенерирован: %v", code, err)
		return ""
	}
	return path
}

// removeQR удаляет артефакт, ошибка только логируется
func (r Registrar) removeQR(link model.Link) {
	if r.artifacts == nil || link.QRPath == "" {
		return
	}
	if err := r.artifacts.Remove(link.ShortCode); err != nil {
		log.Printf("QR для %s не удален: %v", link.ShortCode, err)
	}
}
