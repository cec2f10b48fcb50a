package generator

import (
	"math/rand/v2"
	"strings"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Границы длины короткого кода
const (
	DefaultLength = 6
	MinLength     = 4
	MaxLength     = 10
)

// Generate создает случайный короткий код заданной длины из [A-Za-z0-9].
// Уникальность не гарантируется — за нее отвечает вызывающая сторона.
func Generate(length int) string {
	var result strings.Builder
	l := len(charset)

	for range length {
		result.WriteByte(charset[rand.IntN(l)])
	}

	return result.String()
}

// ValidCode проверяет формат короткого кода: [A-Za-z0-9]{4,10}.
// Всё, что не проходит проверку, не должно попадать в хранилище.
func ValidCode(code string) bool {
	if len(code) < MinLength || len(code) > MaxLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
