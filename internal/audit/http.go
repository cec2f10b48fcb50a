package audit

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"
)

const (
	sendTimeout = 5 * time.Second
	queueSize   = 256
)

// HTTPObserver отправляет события на удалённый сервер аудита.
// Отправка идёт из отдельной горутины, чтобы не тормозить редиректы:
// Notify только кладёт событие в очередь, при переполнении событие
// отбрасывается.
type HTTPObserver struct {
	url    string
	client *http.Client
	queue  chan Event
	wg     sync.WaitGroup
}

// NewHTTPObserver создаёт наблюдателя и запускает горутину отправки
func NewHTTPObserver(url string) *HTTPObserver {
	h := &HTTPObserver{
		url:    url,
		client: &http.Client{Timeout: sendTimeout},
		queue:  make(chan Event, queueSize),
	}

	h.wg.Add(1)
	go h.run()

	return h
}

func (h *HTTPObserver) run() {
	defer h.wg.Done()
	for event := range h.queue {
		h.send(event)
	}
}

// Notify ставит событие в очередь отправки
func (h *HTTPObserver) Notify(event Event) {
	select {
	case h.queue <- event:
	default:
		log.Println("audit http: очередь переполнена, событие отброшено")
	}
}

func (h *HTTPObserver) send(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("audit http: ошибка сериализации: %v", err)
		return
	}

	resp, err := h.client.Post(h.url, "application/json", bytes.NewReader(data))
	if err != nil {
		log.Printf("audit http: ошибка отправки: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		log.Printf("audit http: сервер вернул %d", resp.StatusCode)
	}
}

// Close дожидается отправки всего накопленного
func (h *HTTPObserver) Close() error {
	close(h.queue)
	h.wg.Wait()
	return nil
}
