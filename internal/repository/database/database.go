package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Popolzen/linkcut/internal/model"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// queryTimeout ограничивает время любого запроса к БД.
// Превышение возвращается вызывающему как временная ошибка.
const queryTimeout = 3 * time.Second

// Repository реализация хранилища поверх PostgreSQL.
// Уникальность short_code обеспечивает constraint в таблице links,
// нарушение транслируется в model.ErrDuplicateCode.
type Repository struct {
	DB *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

// isUniqueViolation распознает нарушение уникального ограничения
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// FindByCode получает ссылку по короткому коду
func (r *Repository) FindByCode(ctx context.Context, code string) (model.Link, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `SELECT id, short_code, original_url, COALESCE(user_id::text, ''), expires_at, COALESCE(qr_path, ''), created_at
	          FROM links WHERE short_code = $1`

	link, err := scanLink(r.DB.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Link{}, model.ErrLinkNotFound
		}
		return model.Link{}, fmt.Errorf("ошибка при получении ссылки: %w", err)
	}

	return link, nil
}

// FindByOriginalURL ищет ссылку по оригинальному URL и владельцу.
// Пустой userID означает анонимную ссылку (user_id IS NULL).
func (r *Repository) FindByOriginalURL(ctx context.Context, originalURL, userID string) (model.Link, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `SELECT id, short_code, original_url, COALESCE(user_id::text, ''), expires_at, COALESCE(qr_path, ''), created_at
	          FROM links WHERE original_url = $1 AND user_id IS NOT DISTINCT FROM NULLIF($2, '')::uuid
	          ORDER BY id LIMIT 1`

	link, err := scanLink(r.DB.QueryRowContext(ctx, query, originalURL, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Link{}, model.ErrLinkNotFound
		}
		return model.Link{}, fmt.Errorf("ошибка при поиске по URL: %w", err)
	}

	return link, nil
}

// Insert сохраняет ссылку, возвращает запись с присвоенным ID
func (r *Repository) Insert(ctx context.Context, link model.Link) (model.Link, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `INSERT INTO links (short_code, original_url, user_id, expires_at, qr_path)
	          VALUES ($1, $2, NULLIF($3, '')::uuid, $4, NULLIF($5, ''))
	          RETURNING id, created_at`

	err := r.DB.QueryRowContext(ctx, query,
		link.ShortCode, link.OriginalURL, link.UserID, link.ExpiresAt, link.QRPath,
	).Scan(&link.ID, &link.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Link{}, model.ErrDuplicateCode
		}
		return model.Link{}, fmt.Errorf("ошибка при сохранении ссылки: %w", err)
	}

	return link, nil
}

// Delete удаляет ссылку с проверкой владельца и возвращает удалённую запись
func (r *Repository) Delete(ctx context.Context, id int64, userID string) (model.Link, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if userID == "" {
		return model.Link{}, model.ErrLinkNotFound
	}

	query := `DELETE FROM links WHERE id = $1 AND user_id = $2::uuid
	          RETURNING id, short_code, original_url, COALESCE(user_id::text, ''), expires_at, COALESCE(qr_path, ''), created_at`

	link, err := scanLink(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Link{}, model.ErrLinkNotFound
		}
		return model.Link{}, fmt.Errorf("ошибка при удалении ссылки: %w", err)
	}

	return link, nil
}

// DeleteByID удаляет ссылку без проверки владельца (purge истёкших)
func (r *Repository) DeleteByID(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctx, `DELETE FROM links WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка при удалении ссылки: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrLinkNotFound
	}

	return nil
}

// ListByUser возвращает ссылки пользователя в порядке создания
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]model.Link, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if userID == "" {
		return nil, nil
	}

	query := `SELECT id, short_code, original_url, COALESCE(user_id::text, ''), expires_at, COALESCE(qr_path, ''), created_at
	          FROM links WHERE user_id = $1::uuid ORDER BY id`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении ссылок пользователя: %w", err)
	}
	defer rows.Close()

	var links []model.Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return links, nil
}

// Stats возвращает количество ссылок и пользователей
func (r *Repository) Stats(ctx context.Context) (int, int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var urls, users int
	err := r.DB.QueryRowContext(ctx,
		`SELECT (SELECT count(*) FROM links), (SELECT count(*) FROM users)`,
	).Scan(&urls, &users)
	if err != nil {
		return 0, 0, fmt.Errorf("ошибка при получении статистики: %w", err)
	}

	return urls, users, nil
}

// CreateUser сохраняет пользователя, занятый логин — model.ErrUserExists
func (r *Repository) CreateUser(ctx context.Context, user model.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `INSERT INTO users (id, login, password_hash) VALUES ($1, $2, $3)`

	if _, err := r.DB.ExecContext(ctx, query, user.ID, user.Login, user.PasswordHash); err != nil {
		if isUniqueViolation(err) {
			return model.ErrUserExists
		}
		return fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	return nil
}

// FindUserByLogin получает пользователя по логину
func (r *Repository) FindUserByLogin(ctx context.Context, login string) (model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var user model.User
	query := `SELECT id, login, password_hash FROM users WHERE login = $1`

	err := r.DB.QueryRowContext(ctx, query, login).Scan(&user.ID, &user.Login, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("ошибка при поиске пользователя: %w", err)
	}

	return user, nil
}

// FindUserByID получает пользователя по ID
func (r *Repository) FindUserByID(ctx context.Context, id string) (model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var user model.User
	query := `SELECT id, login, password_hash FROM users WHERE id = $1`

	err := r.DB.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Login, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("ошибка при поиске пользователя: %w", err)
	}

	return user, nil
}

// Close закрывает подключение к БД
func (r *Repository) Close() error {
	return r.DB.Close()
}

// rowScanner объединяет *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// scanLink читает одну запись links
func scanLink(row rowScanner) (model.Link, error) {
	var link model.Link
	var expiresAt sql.NullTime

	err := row.Scan(&link.ID, &link.ShortCode, &link.OriginalURL, &link.UserID, &expiresAt, &link.QRPath, &link.CreatedAt)
	if err != nil {
		return model.Link{}, err
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		link.ExpiresAt = &t
	}

	return link, nil
}
