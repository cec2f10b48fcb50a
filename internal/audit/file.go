package audit

import (
	"bufio"
	"encoding/json"
	"log"
	"os"
	"sync"
)

// FileObserver пишет события в файл, одно событие — одна строка JSON.
// Запись буферизована, буфер сбрасывается при Close.
type FileObserver struct {
	mu   sync.Mutex
	file *os.File
	buf  *bufio.Writer
	enc  *json.Encoder
}

// NewFileObserver открывает файл журнала на дозапись
func NewFileObserver(path string) (*FileObserver, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	buf := bufio.NewWriter(file)
	return &FileObserver{
		file: file,
		buf:  buf,
		enc:  json.NewEncoder(buf),
	}, nil
}

// Notify дописывает событие в журнал
func (f *FileObserver) Notify(event Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.enc.Encode(event); err != nil {
		log.Printf("audit file: ошибка записи: %v", err)
	}
}

// Close сбрасывает буфер и закрывает файл
func (f *FileObserver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.buf.Flush(); err != nil {
		log.Printf("audit file: ошибка сброса буфера: %v", err)
	}
	return f.file.Close()
}
