package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mjaros/parley"
	"github.com/mjaros/parley/api"
	"github.com/mjaros/parley/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, token string, handler http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := &mock.TokenStore{}
	store.Set(token)
	return api.New(store, api.WithBaseURL(srv.URL))
}

func TestClient_Login(t *testing.T) {
	t.Parallel()

	t.Run("success returns token and profile", func(t *testing.T) {
		t.Parallel()

		var captured []byte
		client := newClient(t, "", func(w http.ResponseWriter, r *http.Request) {
			captured, _ = io.ReadAll(r.Body)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/auth/login/", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Empty(t, r.Header.Get("Authorization"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"token": "tok-1",
				"user": {"id": 3, "username": "ada", "email": "ada@example.com",
					"first_name": "Ada", "last_name": "Lovelace",
					"date_joined": "2024-01-02T15:04:05Z"}
			}`))
		})

		creds, err := client.Login(context.Background(), "ada", "hunter2")
		require.NoError(t, err)
		assert.Equal(t, "tok-1", creds.Token)
		assert.Equal(t, "3", creds.User.ID)
		assert.Equal(t, "Ada", creds.User.FirstName)
		assert.Equal(t, time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC), creds.User.JoinedAt)

		var body map[string]any
		require.NoError(t, json.Unmarshal(captured, &body))
		assert.Equal(t, "ada", body["username"])
		assert.Equal(t, "hunter2", body["password"])
	})

	t.Run("rejection maps the payload message", func(t *testing.T) {
		t.Parallel()

		client := newClient(t, "", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message": "Invalid credentials"}`))
		})

		_, err := client.Login(context.Background(), "ada", "wrong")
		var ae *parley.AuthError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, "Invalid credentials", ae.Message)
	})

	t.Run("rejection without a message falls back to a generic one", func(t *testing.T) {
		t.Parallel()

		client := newClient(t, "", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`not json`))
		})

		_, err := client.Login(context.Background(), "ada", "wrong")
		var ae *parley.AuthError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, "Login failed", ae.Message)
	})
}

func TestClient_Register_FieldErrors(t *testing.T) {
	t.Parallel()

	client := newClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/register/", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{
			"username": ["A user with that username already exists."],
			"password": ["This password is too short.", "This password is too common."]
		}`))
	})

	_, err := client.Register(context.Background(), parley.Registration{Username: "ada"})
	var ae *parley.AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, []string{"A user with that username already exists."}, ae.Fields["username"])
	assert.Len(t, ae.Fields["password"], 2)
}

func TestClient_Profile(t *testing.T) {
	t.Parallel()

	t.Run("sends the ambient token", func(t *testing.T) {
		t.Parallel()

		client := newClient(t, "tok-9", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Token tok-9", r.Header.Get("Authorization"))
			assert.Equal(t, "/api/auth/profile/", r.URL.Path)
			_, _ = w.Write([]byte(`{"id": 3, "username": "ada"}`))
		})

		user, err := client.Profile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "ada", user.Username)
	})

	t.Run("401 maps to ErrInvalidToken", func(t *testing.T) {
		t.Parallel()

		client := newClient(t, "tok-stale", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail": "Invalid token."}`))
		})

		_, err := client.Profile(context.Background())
		require.ErrorIs(t, err, parley.ErrInvalidToken)
	})
}

func TestClient_Conversations(t *testing.T) {
	t.Parallel()

	client := newClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/conversations/", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"count": 2,
			"results": [
				{"id": 7, "title": "Trip planning", "message_count": 4,
					"created_at": "2024-03-01T10:00:00Z", "updated_at": "2024-03-02T10:00:00Z"},
				{"id": 8, "title": "Recipes", "message_count": 2,
					"created_at": "2024-03-03T10:00:00Z", "updated_at": "2024-03-03T11:00:00Z"}
			]
		}`))
	})

	conversations, err := client.Conversations(context.Background())
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	assert.Equal(t, "7", conversations[0].ID)
	assert.Equal(t, "Trip planning", conversations[0].Title)
	assert.Equal(t, 4, conversations[0].MessageCount)
}

func TestClient_Conversation_Shapes(t *testing.T) {
	t.Parallel()

	const wrapped = `{"conversation": {"id": 7, "title": "Wrapped",
		"messages": [{"id": 1, "content": "hi", "is_user": true, "timestamp": "2024-03-01T10:00:00Z"}]}}`
	const flat = `{"id": 7, "title": "Flat",
		"messages": [{"id": 1, "content": "hi", "is_user": true, "timestamp": "2024-03-01T10:00:00Z"}]}`

	tests := []struct {
		name  string
		body  string
		title string
	}{
		{name: "wrapped shape", body: wrapped, title: "Wrapped"},
		{name: "flat shape", body: flat, title: "Flat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/conversations/7/", r.URL.Path)
				_, _ = w.Write([]byte(tt.body))
			})

			conv, err := client.Conversation(context.Background(), "7")
			require.NoError(t, err)
			assert.Equal(t, "7", conv.ID)
			assert.Equal(t, tt.title, conv.Title)
			require.Len(t, conv.Messages, 1)
			assert.Equal(t, "1", conv.Messages[0].ID)
			assert.Equal(t, parley.AuthorUser, conv.Messages[0].Author)
		})
	}
}

func TestClient_Conversation_NotFound(t *testing.T) {
	t.Parallel()

	client := newClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "Conversation not found"}`))
	})

	_, err := client.Conversation(context.Background(), "404")
	require.ErrorIs(t, err, parley.ErrNotFound)
}

func TestClient_DeleteConversation(t *testing.T) {
	t.Parallel()

	var path, method string
	client := newClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		method = r.Method
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteConversation(context.Background(), "7"))
	assert.Equal(t, "/api/conversations/7/delete/", path)
	assert.Equal(t, http.MethodDelete, method)
}

func TestClient_Send(t *testing.T) {
	t.Parallel()

	t.Run("existing conversation carries a numeric id", func(t *testing.T) {
		t.Parallel()

		var captured []byte
		client := newClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			captured, _ = io.ReadAll(r.Body)
			assert.Equal(t, "/api/chat/", r.URL.Path)
			_, _ = w.Write([]byte(`{
				"conversation_id": 7,
				"user_message": {"id": 10, "content": "hello", "is_user": true, "timestamp": "2024-03-01T10:00:00Z"},
				"ai_message": {"id": 11, "content": "hey", "is_user": false, "timestamp": "2024-03-01T10:00:01Z"}
			}`))
		})

		reply, err := client.Send(context.Background(), "hello", "7")
		require.NoError(t, err)
		assert.Equal(t, "7", reply.ConversationID)
		assert.Equal(t, "10", reply.UserMessage.ID)
		assert.Equal(t, parley.AuthorAssistant, reply.AssistantMessage.Author)

		// conversation_id must go over the wire as a JSON number.
		assert.JSONEq(t, `{"message": "hello", "conversation_id": 7}`, string(captured))
	})

	t.Run("new conversation omits the id", func(t *testing.T) {
		t.Parallel()

		var captured []byte
		client := newClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			captured, _ = io.ReadAll(r.Body)
			_, _ = w.Write([]byte(`{
				"conversation_id": 42,
				"user_message": {"id": 10, "content": "hi", "is_user": true, "timestamp": "2024-03-01T10:00:00Z"},
				"ai_message": {"id": 11, "content": "hello!", "is_user": false, "timestamp": "2024-03-01T10:00:01Z"}
			}`))
		})

		reply, err := client.Send(context.Background(), "hi", "")
		require.NoError(t, err)
		assert.Equal(t, "42", reply.ConversationID)
		assert.JSONEq(t, `{"message": "hi"}`, string(captured))
	})
}
