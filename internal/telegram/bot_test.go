package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBot_SendMessage(t *testing.T) {
	var got SendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"chat":{"id":42,"type":"private"}}}`))
	}))
	defer srv.Close()

	bot := NewWithBaseURL("TOKEN", srv.URL)
	require.NoError(t, bot.SendMessage(42, "hello"))

	assert.Equal(t, int64(42), got.ChatID)
	assert.Equal(t, "hello", got.Text)
	assert.Equal(t, "Markdown", got.ParseMode)
}

func TestBot_SendMessageAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: can't parse entities"}`))
	}))
	defer srv.Close()

	err := NewWithBaseURL("TOKEN", srv.URL).SendMessage(1, "*broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't parse entities")
}

func TestBot_SendMessageRetriesWithoutMarkdown(t *testing.T) {
	var (
		mu    sync.Mutex
		modes []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SendMessageRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		mu.Lock()
		modes = append(modes, req.ParseMode)
		mu.Unlock()
		if req.ParseMode != "" {
			_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: can't parse entities: Can't find end of the entity starting at byte offset 10"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":8,"chat":{"id":1,"type":"private"}}}`))
	}))
	defer srv.Close()

	err := NewWithBaseURL("TOKEN", srv.URL).SendMessage(1, "Email: jane_doe@doe.com")

	require.NoError(t, err)
	assert.Equal(t, []string{"Markdown", ""}, modes)
}

func TestBot_SendMessageOtherErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Forbidden: bot was blocked by the user"}`))
	}))
	defer srv.Close()

	err := NewWithBaseURL("TOKEN", srv.URL).SendMessage(1, "hi")

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestBot_GetUpdates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/getUpdates", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("offset"))
		assert.Equal(t, "0", r.URL.Query().Get("timeout"))
		_, _ = w.Write([]byte(`{"ok":true,"result":[{"update_id":5,"message":{"message_id":1,"from":{"id":9,"first_name":"Jane"},"chat":{"id":9,"type":"private"},"text":"/start"}}]}`))
	}))
	defer srv.Close()

	bot := NewWithBaseURL("TOKEN", srv.URL)
	bot.SetPollTimeout(0)

	updates, err := bot.GetUpdates(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, 5, updates[0].UpdateID)
	assert.Equal(t, int64(9), updates[0].Message.From.ID)
	assert.Equal(t, "/start", updates[0].Message.Text)
}

func TestBot_GetUpdatesInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := NewWithBaseURL("TOKEN", srv.URL).GetUpdates(context.Background(), 0)
	assert.Error(t, err)
}

func TestBot_StartPollingStopsOnCancel(t *testing.T) {
	var (
		mu    sync.Mutex
		calls int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			_, _ = w.Write([]byte(`{"ok":true,"result":[{"update_id":1,"message":{"message_id":1,"from":{"id":3,"first_name":"A"},"chat":{"id":3,"type":"private"},"text":"hi"}}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":[]}`))
	}))
	defer srv.Close()

	bot := NewWithBaseURL("TOKEN", srv.URL)
	bot.SetPollTimeout(0)

	ctx, cancel := context.WithCancel(context.Background())
	received := make(chan Update, 1)
	done := make(chan error, 1)
	go func() {
		done <- bot.StartPolling(ctx, func(u Update) { received <- u })
	}()

	select {
	case u := <-received:
		assert.Equal(t, "hi", u.Message.Text)
	case <-time.After(5 * time.Second):
		t.Fatal("update was not delivered")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop")
	}
}
