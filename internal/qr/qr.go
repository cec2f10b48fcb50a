package qr

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
)

// imageSize размер стороны PNG в пикселях
const imageSize = 256

// Store генерирует и хранит QR-изображения для коротких ссылок.
// Путь файла выводится из кода детерминированно: <dir>/<code>.png.
type Store struct {
	dir string
}

// NewStore создает каталог артефактов, если его еще нет
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("не удалось создать каталог QR: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Path возвращает путь файла для короткого кода
func (s *Store) Path(code string) string {
	return filepath.Join(s.dir, code+".png")
}

// Render кодирует публичный URL короткой ссылки в PNG и возвращает путь файла
func (s *Store) Render(code, publicURL string) (string, error) {
	path := s.Path(code)
	if err := qrcode.WriteFile(publicURL, qrcode.Medium, imageSize, path); err != nil {
		return "", fmt.Errorf("не удалось сгенерировать QR: %w", err)
	}
	return path, nil
}

// Remove удаляет артефакт. Отсутствующий файл ошибкой не считается.
func (s *Store) Remove(code string) error {
	err := os.Remove(s.Path(code))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("не удалось удалить QR: %w", err)
	}
	return nil
}
