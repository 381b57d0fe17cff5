package email

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"coursestream/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendGridSender_SendPasswordReset(t *testing.T) {
	var got map[string]interface{}
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		assert.Equal(t, endpoint, r.URL.Path)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewSendGridSender("SG.key", "no-reply@example.com", "https://app.example").WithHost(srv.URL)
	err := s.SendPasswordReset(context.Background(), "ana@example.com", "ana", "abc-123")
	require.NoError(t, err)

	assert.Equal(t, "Bearer SG.key", auth)
	assert.Equal(t, "Password recovery", got["subject"])
	raw, _ := json.Marshal(got["content"])
	assert.Contains(t, string(raw), "https://app.example/reset-password?token=abc-123")
}

func TestSendGridSender_EscapesName(t *testing.T) {
	var got struct {
		Content []struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"content"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewSendGridSender("SG.key", "no-reply@example.com", "https://app.example").WithHost(srv.URL)
	require.NoError(t, s.SendPasswordReset(context.Background(), "eve@example.com", `<b onclick="x()">eve</b>`, "t"))

	var htmlBody string
	for _, c := range got.Content {
		if c.Type == "text/html" {
			htmlBody = c.Value
		}
	}
	require.NotEmpty(t, htmlBody)
	assert.Contains(t, htmlBody, "&lt;b onclick=&#34;x()&#34;&gt;eve&lt;/b&gt;")
	assert.NotContains(t, htmlBody, "<b onclick")
}

func TestSendGridSender_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	s := NewSendGridSender("bad", "no-reply@example.com", "https://app.example").WithHost(srv.URL)
	err := s.SendPasswordReset(context.Background(), "ana@example.com", "ana", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
}

func TestConsoleSender(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSender(logger.New(log.New(&buf, "", 0), logger.Options{}), "http://localhost:3000")

	require.NoError(t, s.SendPasswordReset(context.Background(), "ana@example.com", "ana", "tok"))
	assert.Contains(t, buf.String(), "link=http://localhost:3000/reset-password?token=tok")
}
