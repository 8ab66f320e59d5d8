package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"debo-loans/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailjetMailerSend(t *testing.T) {
	var got mailjetPayload
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3.1/send", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewMailjetMailer(config.MailConfig{
		BaseURL:     srv.URL,
		Username:    "key",
		Password:    "secret",
		SenderEmail: "no-reply@debo.local",
		SenderName:  "Debo",
	})
	err := m.Send(context.Background(), Message{ToName: "Abebe", ToEmail: "abebe@example.com", Subject: "Code", Body: "123456"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(auth, "Basic "))
	assert.Greater(t, len(auth), len("Basic "))
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "abebe@example.com", got.Messages[0].To[0].Email)
	assert.Equal(t, "123456", got.Messages[0].TextPart)
}

func TestMailjetMailerNegativeResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	m := NewMailjetMailer(config.MailConfig{BaseURL: srv.URL})
	err := m.Send(context.Background(), Message{ToEmail: "x@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestNewSelectsDriver(t *testing.T) {
	_, ok := New(config.MailConfig{Driver: "mailjet"}).(*MailjetMailer)
	assert.True(t, ok)
	_, ok = New(config.MailConfig{Driver: "log"}).(LogMailer)
	assert.True(t, ok)
}
