package mailcow

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClientFor(t *testing.T, body string, status int) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	c := NewClient("http", "ignored", "test-key")
	c.baseURL = srv.URL
	return c
}

func TestGetMailbox_ObjectShape(t *testing.T) {
	c := newClientFor(t, `{
		"username": "budi@smkbn666.sch.id",
		"local_part": "budi",
		"name": "Budi Santoso",
		"tags": ["siswa"]
	}`, http.StatusOK)

	mailbox, err := c.GetMailbox(context.Background(), "budi@smkbn666.sch.id")

	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", mailbox.Name)
	assert.Equal(t, "budi", mailbox.LocalPart)
	assert.Equal(t, []string{"siswa"}, mailbox.Tags)
}

func TestGetMailbox_ArrayShape(t *testing.T) {
	c := newClientFor(t, `[{
		"username": "ani@smkbn666.sch.id",
		"local_part": "ani",
		"attributes": {"name": "Ani"},
		"tags": ["guru"]
	}]`, http.StatusOK)

	mailbox, err := c.GetMailbox(context.Background(), "ani@smkbn666.sch.id")

	require.NoError(t, err)
	assert.Equal(t, "Ani", mailbox.Name, "name falls back to attributes.name")
	assert.Equal(t, []string{"guru"}, mailbox.Tags)
}

func TestGetMailbox_NotFound(t *testing.T) {
	c := newClientFor(t, `{}`, http.StatusOK)

	_, err := c.GetMailbox(context.Background(), "ghost@smkbn666.sch.id")
	require.Error(t, err)
}

func TestGetMailbox_UpstreamError(t *testing.T) {
	c := newClientFor(t, `{"type":"error"}`, http.StatusUnauthorized)

	_, err := c.GetMailbox(context.Background(), "budi@smkbn666.sch.id")
	require.Error(t, err)
}
