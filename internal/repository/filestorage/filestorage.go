package filestorage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Popolzen/linkcut/internal/model"
	"github.com/Popolzen/linkcut/internal/repository/memory"
)

// snapshot формат файла хранилища
type snapshot struct {
	Links []model.Link   `json:"links"`
	Users []snapshotUser `json:"users"`
}

// snapshotUser запись пользователя в снимке.
// model.User прячет хэш пароля от JSON наружных ответов (`json:"-"`),
// в файле же хэш обязан пережить перезапуск — иначе после рестарта
// ни один пароль не сойдется.
type snapshotUser struct {
	ID           string `json:"id"`
	Login        string `json:"login"`
	PasswordHash string `json:"password_hash"`
}

// Repository хранит данные в памяти и сбрасывает снимок в JSON-файл
// после каждой мутации. При старте файл загружается целиком.
type Repository struct {
	*memory.Repository
	path string
}

func NewRepository(path string) *Repository {
	repo := &Repository{
		Repository: memory.NewRepository(),
		path:       path,
	}

	if err := repo.load(); err != nil {
		// Файла может не быть при первом запуске, начинаем с пустого хранилища
		return repo
	}
	return repo
}

// Insert сохраняет ссылку и обновляет файл
func (r *Repository) Insert(ctx context.Context, link model.Link) (model.Link, error) {
	stored, err := r.Repository.Insert(ctx, link)
	if err != nil {
		return model.Link{}, err
	}
	r.save(ctx)
	return stored, nil
}

// Delete удаляет ссылку с проверкой владельца и обновляет файл
func (r *Repository) Delete(ctx context.Context, id int64, userID string) (model.Link, error) {
	deleted, err := r.Repository.Delete(ctx, id, userID)
	if err != nil {
		return model.Link{}, err
	}
	r.save(ctx)
	return deleted, nil
}

// DeleteByID удаляет ссылку и обновляет файл
func (r *Repository) DeleteByID(ctx context.Context, id int64) error {
	if err := r.Repository.DeleteByID(ctx, id); err != nil {
		return err
	}
	r.save(ctx)
	return nil
}

// CreateUser сохраняет пользователя и обновляет файл
func (r *Repository) CreateUser(ctx context.Context, user model.User) error {
	if err := r.Repository.CreateUser(ctx, user); err != nil {
		return err
	}
	r.save(ctx)
	return nil
}

// Close сбрасывает снимок перед завершением
func (r *Repository) Close() error {
	return r.writeSnapshot(context.Background())
}

// load загружает данные из файла в память
func (r *Repository) load() error {
	file, err := os.OpenFile(r.path, os.O_RDONLY, 0644)
	if err != nil {
		return fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("ошибка чтения файла: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("ошибка десериализации JSON: %w", err)
	}

	ctx := context.Background()
	for _, link := range snap.Links {
		if _, err := r.Repository.Insert(ctx, link); err != nil {
			return err
		}
	}
	for _, user := range snap.Users {
		restored := model.User{
			ID:           user.ID,
			Login:        user.Login,
			PasswordHash: user.PasswordHash,
		}
		if err := r.Repository.CreateUser(ctx, restored); err != nil {
			return err
		}
	}

	return nil
}

// save пишет снимок, ошибка записи не прерывает операцию
func (r *Repository) save(ctx context.Context) {
	if err := r.writeSnapshot(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "filestorage: %v\n", err)
	}
}

// writeSnapshot сериализует текущее состояние в файл
func (r *Repository) writeSnapshot(ctx context.Context) error {
	users := r.AllUsers(ctx)
	snap := snapshot{
		Links: r.AllLinks(ctx),
		Users: make([]snapshotUser, 0, len(users)),
	}
	for _, user := range users {
		snap.Users = append(snap.Users, snapshotUser{
			ID:           user.ID,
			Login:        user.Login,
			PasswordHash: user.PasswordHash,
		})
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("ошибка сериализации JSON: %w", err)
	}

	file, err := os.OpenFile(r.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644) // создаем файл если его нет
	if err != nil {
		return fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("ошибка записи файла: %w", err)
	}

	return nil
}
