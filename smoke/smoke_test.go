package smoke

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestPairingScenario walks the full invite-link flow against a running
// server: two users pair through a token, a third is turned away, and a
// message travels from one participant to the other through polling.
func TestPairingScenario(t *testing.T) {
	req := require.New(t)
	cfg, err := LoadConfig()
	req.NoError(err)
	if cfg.Addr == "" {
		t.Skip("SMOKE_ADDR not set, skipping smoke scenario")
	}

	c := client{t: t, base: cfg.Addr, debug: cfg.DebugJSON}

	suffix := uuid.NewString()[:8]
	alice := c.signup("alice+"+suffix+"@example.com", "alice_"+suffix)
	bob := c.signup("bob+"+suffix+"@example.com", "bob_"+suffix)
	carol := c.signup("carol+"+suffix+"@example.com", "carol_"+suffix)

	var room struct {
		ID          string `json:"id"`
		InviteToken string `json:"invite_token"`
	}
	c.do(alice, http.MethodPost, "/api/chats/create", nil, http.StatusCreated, &room)
	req.NotEmpty(room.ID)
	req.NotEmpty(room.InviteToken)

	c.do(bob, http.MethodPost, "/api/chats/join/"+room.InviteToken, nil, http.StatusOK, nil)
	c.do(carol, http.MethodPost, "/api/chats/join/"+room.InviteToken, nil, http.StatusConflict, nil)

	content := "hi from smoke " + time.Now().UTC().Format(time.RFC3339Nano)
	c.do(alice, http.MethodPost, "/api/messages/"+room.ID,
		map[string]string{"content": content}, http.StatusCreated, nil)

	var page struct {
		Messages []struct {
			SenderID string `json:"sender_id"`
			Content  string `json:"content"`
		} `json:"messages"`
	}
	c.do(bob, http.MethodGet, "/api/messages/"+room.ID, nil, http.StatusOK, &page)
	req.Len(page.Messages, 1)
	req.Equal(content, page.Messages[0].Content)
}

type client struct {
	t     *testing.T
	base  string
	debug bool
}

func (c client) signup(email, username string) string {
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	c.do("", http.MethodPost, "/api/auth/signup", map[string]string{
		"email":    email,
		"username": username,
		"password": "Sm0ke-Passw0rd!",
	}, http.StatusCreated, &resp)
	require.NotEmpty(c.t, resp.AccessToken)
	return resp.AccessToken
}

func (c client) do(token, method, path string, body any, wantStatus int, out any) {
	req := require.New(c.t)

	var payload bytes.Buffer
	if body != nil {
		req.NoError(json.NewEncoder(&payload).Encode(body))
	}
	httpReq, err := http.NewRequest(method, c.base+path, &payload)
	req.NoError(err)
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(httpReq)
	req.NoError(err)
	defer resp.Body.Close()

	if c.debug {
		fmt.Printf("%s %s -> %d\n", method, path, resp.StatusCode)
	}
	req.Equal(wantStatus, resp.StatusCode)
	if out != nil {
		req.NoError(json.NewDecoder(resp.Body).Decode(out))
	}
}
