package mock_test

import (
	"context"
	"testing"

	"github.com/mjaros/parley"
	"github.com/mjaros/parley/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Delegates(t *testing.T) {
	t.Parallel()

	c := &mock.Client{
		SendFn: func(ctx context.Context, text, conversationID string) (parley.Reply, error) {
			return parley.Reply{ConversationID: conversationID, UserMessage: parley.Message{Content: text}}, nil
		},
	}

	reply, err := c.Send(context.Background(), "hello", "7")
	require.NoError(t, err)
	assert.Equal(t, "7", reply.ConversationID)
	assert.Equal(t, "hello", reply.UserMessage.Content)
}

func TestTokenStore_InMemory(t *testing.T) {
	t.Parallel()

	store := &mock.TokenStore{}

	token, err := store.Token()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save("tok-1"))
	token, err = store.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	require.NoError(t, store.Clear())
	token, err = store.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestTokenStore_FunctionFieldsOverride(t *testing.T) {
	t.Parallel()

	called := false
	store := &mock.TokenStore{
		SaveFn: func(token string) error {
			called = true
			return nil
		},
	}
	require.NoError(t, store.Save("tok"))
	assert.True(t, called)
}
