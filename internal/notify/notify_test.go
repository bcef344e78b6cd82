package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailClient_PostsPayload(t *testing.T) {
	var got Email
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	err := NewMailClient(srv.URL).Send(context.Background(), Welcome("ana@example.com", "Ana"))
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", got.To)
	assert.Equal(t, "Welcome aboard", got.Subject)
	assert.Contains(t, got.Content, "Hi Ana")
}

func TestMailClient_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "smtp down", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewMailClient(srv.URL).Send(context.Background(), Email{To: "a@b.c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "smtp down")
}

func TestDispatcher_DeliversAsync(t *testing.T) {
	var mu sync.Mutex
	var sent []Email
	d := NewDispatcher(SenderFunc(func(ctx context.Context, e Email) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		mu.Lock()
		sent = append(sent, e)
		mu.Unlock()
		return nil
	}), time.Second)

	d.Dispatch(BookingConfirmation("ana@example.com", "Ana", "Jazz", 7, 35))
	d.Dispatch(Email{}) // no recipient, dropped

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Wait(ctx))
	require.Len(t, sent, 1)
	assert.Equal(t, "Booking confirmed: Jazz", sent[0].Subject)
	assert.Contains(t, sent[0].Content, "Tickets: 7")
}

func TestDispatcher_FailuresAreSwallowed(t *testing.T) {
	d := NewDispatcher(SenderFunc(func(context.Context, Email) error {
		return errors.New("broker unreachable")
	}), time.Second)
	d.Dispatch(Email{To: "a@b.c"})
	require.NoError(t, d.Wait(context.Background()))
}

func TestDispatcher_NilSenderIsNoop(t *testing.T) {
	d := NewDispatcher(nil, 0)
	d.Dispatch(Email{To: "a@b.c"})
	require.NoError(t, d.Wait(context.Background()))

	var nilD *Dispatcher
	nilD.Dispatch(Email{To: "a@b.c"})
}
