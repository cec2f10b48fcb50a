package audit

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockObserver ручная заглушка наблюдателя
type mockObserver struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (m *mockObserver) Notify(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *mockObserver) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func TestNewEvent(t *testing.T) {
	before := time.Now().Unix()
	event := NewEvent(ActionShorten, "user-123", "abc123", "https://example.com")
	after := time.Now().Unix()

	assert.Equal(t, ActionShorten, event.Action)
	assert.Equal(t, "user-123", event.UserID)
	assert.Equal(t, "abc123", event.Code)
	assert.Equal(t, "https://example.com", event.URL)
	assert.GreaterOrEqual(t, event.Timestamp, before)
	assert.LessOrEqual(t, event.Timestamp, after)
}

func TestNewEvent_AnonymousFollow(t *testing.T) {
	event := NewEvent(ActionFollow, "", "abc123", "https://example.com")

	assert.Equal(t, ActionFollow, event.Action)
	assert.Empty(t, event.UserID)
}

func TestPublisher_Publish(t *testing.T) {
	pub := NewPublisher()
	mock := &mockObserver{}
	pub.Subscribe(mock)

	event := NewEvent(ActionExpire, "", "abc123", "")
	pub.Publish(event)

	mock.mu.Lock()
	defer mock.mu.Unlock()
	require.Len(t, mock.events, 1)
	assert.Equal(t, ActionExpire, mock.events[0].Action)
}

func TestPublisher_PublishMultipleObservers(t *testing.T) {
	pub := NewPublisher()
	mock1 := &mockObserver{}
	mock2 := &mockObserver{}
	pub.Subscribe(mock1)
	pub.Subscribe(mock2)

	pub.Publish(NewEvent(ActionDelete, "user-1", "abc123", ""))

	assert.Len(t, mock1.events, 1)
	assert.Len(t, mock2.events, 1)
}

func TestPublisher_Close(t *testing.T) {
	pub := NewPublisher()
	mock := &mockObserver{}
	pub.Subscribe(mock)

	require.NoError(t, pub.Close())
	assert.True(t, mock.closed)
}

func TestFileObserver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	obs, err := NewFileObserver(path)
	require.NoError(t, err)

	obs.Notify(NewEvent(ActionShorten, "user-1", "abc123", "https://example.com"))
	obs.Notify(NewEvent(ActionFollow, "", "abc123", "https://example.com"))
	require.NoError(t, obs.Close())

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var lines []Event
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var e Event
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		lines = append(lines, e)
	}

	require.Len(t, lines, 2)
	assert.Equal(t, ActionShorten, lines[0].Action)
	assert.Equal(t, ActionFollow, lines[1].Action)
}

func TestHTTPObserver(t *testing.T) {
	var received Event
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	obs := NewHTTPObserver(server.URL)
	obs.Notify(NewEvent(ActionDelete, "user-1", "abc123", ""))

	// Отправка асинхронная, Close дожидается очереди
	require.NoError(t, obs.Close())

	assert.Equal(t, ActionDelete, received.Action)
	assert.Equal(t, "user-1", received.UserID)
}
