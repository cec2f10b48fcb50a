package links

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Popolzen/linkcut/internal/generator"
	"github.com/Popolzen/linkcut/internal/model"
	"github.com/Popolzen/linkcut/internal/repository"
)

// Status исход разрешения короткого кода
type Status int

const (
	StatusRedirect Status = iota
	StatusExpired
	StatusNotFound
)

// Resolution результат разрешения: куда перенаправлять и что случилось
type Resolution struct {
	Status      Status
	OriginalURL string
}

// Resolver переводит короткий код в оригинальный URL
// и попутно вычищает истёкшие ссылки.
type Resolver struct {
	repo      repository.LinkRepository
	artifacts ArtifactStore
	now       func() time.Time
}

func NewResolver(repo repository.LinkRepository, artifacts ArtifactStore) Resolver {
	return Resolver{
		repo:      repo,
		artifacts: artifacts,
		now:       time.Now,
	}
}

// Resolve возвращает исход для кода. Невалидный формат отсекается
// до обращения к хранилищу и неотличим от несуществующего кода.
func (r Resolver) Resolve(ctx context.Context, code string) (Resolution, error) {
	if !generator.ValidCode(code) {
		return Resolution{Status: StatusNotFound}, nil
	}

	link, err := r.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, model.ErrLinkNotFound) {
			return Resolution{Status: StatusNotFound}, nil
		}
		return Resolution{}, err
	}

	if link.IsExpired(r.now()) {
		r.purge(ctx, link)
		return Resolution{Status: StatusExpired}, nil
	}

	return Resolution{Status: StatusRedirect, OriginalURL: link.OriginalURL}, nil
}

// purge удаляет истёкшую ссылку и её артефакт.
// Неудача не меняет исход: ссылка уже считается истёкшей.
func (r Resolver) purge(ctx context.Context, link model.Link) {
	if err := r.repo.DeleteByID(ctx, link.ID); err != nil && !errors.Is(err, model.ErrLinkNotFound) {
		log.Printf("истёкшая ссылка %s не удалена: %v", link.ShortCode, err)
	}
	if r.artifacts != nil && link.QRPath != "" {
		if err := r.artifacts.Remove(link.ShortCode); err != nil {
			log.Printf("QR для %s не удален: %v", link.ShortCode, err)
		}
	}
}
