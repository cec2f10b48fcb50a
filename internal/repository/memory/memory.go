package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Popolzen/linkcut/internal/model"
)

// Repository хранит ссылки и пользователей в памяти.
// Используется в тестах и при запуске без БД и файла.
type Repository struct {
	mu     sync.RWMutex
	nextID int64
	links  map[string]model.Link // ключ — short_code
	users  map[string]model.User // ключ — login
}

func NewRepository() *Repository {
	return &Repository{
		nextID: 1,
		links:  map[string]model.Link{},
		users:  map[string]model.User{},
	}
}

// FindByCode получает ссылку по короткому коду
func (r *Repository) FindByCode(_ context.Context, code string) (model.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if link, exists := r.links[code]; exists {
		return link, nil
	}
	return model.Link{}, model.ErrLinkNotFound
}

// FindByOriginalURL ищет ссылку по оригинальному URL и владельцу
func (r *Repository) FindByOriginalURL(_ context.Context, originalURL, userID string) (model.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, link := range r.links {
		if link.OriginalURL == originalURL && link.UserID == userID {
			return link, nil
		}
	}
	return model.Link{}, model.ErrLinkNotFound
}

// Insert сохраняет ссылку. Занятый короткий код — ErrDuplicateCode,
// проверка и запись выполняются под одной блокировкой.
func (r *Repository) Insert(_ context.Context, link model.Link) (model.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.links[link.ShortCode]; exists {
		return model.Link{}, model.ErrDuplicateCode
	}

	// Ненулевой ID сохраняем как есть — так файловое хранилище
	// восстанавливает записи из снимка без смены идентификаторов
	if link.ID == 0 {
		link.ID = r.nextID
		r.nextID++
	} else if link.ID >= r.nextID {
		r.nextID = link.ID + 1
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	r.links[link.ShortCode] = link

	return link, nil
}

// Delete удаляет ссылку с проверкой владельца.
// Анонимные ссылки через этот путь удалить нельзя.
func (r *Repository) Delete(_ context.Context, id int64, userID string) (model.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if userID == "" {
		return model.Link{}, model.ErrLinkNotFound
	}

	for code, link := range r.links {
		if link.ID == id && link.UserID == userID {
			delete(r.links, code)
			return link, nil
		}
	}
	return model.Link{}, model.ErrLinkNotFound
}

// DeleteByID удаляет ссылку без проверки владельца
func (r *Repository) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for code, link := range r.links {
		if link.ID == id {
			delete(r.links, code)
			return nil
		}
	}
	return model.ErrLinkNotFound
}

// ListByUser возвращает ссылки пользователя в порядке создания
func (r *Repository) ListByUser(_ context.Context, userID string) ([]model.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []model.Link
	for _, link := range r.links {
		if userID != "" && link.UserID == userID {
			result = append(result, link)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

// Stats возвращает количество ссылок и пользователей
func (r *Repository) Stats(_ context.Context) (int, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.links), len(r.users), nil
}

// CreateUser сохраняет пользователя, логин должен быть свободен
func (r *Repository) CreateUser(_ context.Context, user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Login]; exists {
		return model.ErrUserExists
	}
	r.users[user.Login] = user
	return nil
}

// FindUserByLogin получает пользователя по логину
func (r *Repository) FindUserByLogin(_ context.Context, login string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if user, exists := r.users[login]; exists {
		return user, nil
	}
	return model.User{}, model.ErrUserNotFound
}

// FindUserByID получает пользователя по ID
func (r *Repository) FindUserByID(_ context.Context, id string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

// AllLinks возвращает все ссылки в порядке создания.
// Нужен файловому хранилищу для снимков.
func (r *Repository) AllLinks(_ context.Context) []model.Link {
	r.mu.RLock()
	defer r.mu.RUnlock()

	links := make([]model.Link, 0, len(r.links))
	for _, link := range r.links {
		links = append(links, link)
	}
	sort.Slice(links, func(i, j int) bool { return links[i].ID < links[j].ID })

	return links
}

// AllUsers возвращает всех пользователей
func (r *Repository) AllUsers(_ context.Context) []model.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Login < users[j].Login })

	return users
}

func (r *Repository) Close() error {
	return nil
}
