// Package mailcow wraps the mailcow admin API. Only the mailbox detail
// endpoint is used, to enrich a freshly authenticated session with the
// account's display name and role tags.
package mailcow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Mailbox is the subset of mailcow's mailbox object the app cares about.
type Mailbox struct {
	Name      string
	LocalPart string
	Tags      []string
}

type mailboxPayload struct {
	Username  string `json:"username"`
	LocalPart string `json:"local_part"`
	Name      string `json:"name"`
	Attributes struct {
		Name string `json:"name"`
	} `json:"attributes"`
	Tags []string `json:"tags"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(protocol, host, apiKey string) *Client {
	if protocol == "" {
		protocol = "https"
	}
	return &Client{
		baseURL: fmt.Sprintf("%s://%s", protocol, host),
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetMailbox fetches mailbox details for a full email address. The API
// answers with either an object or a single-element array depending on
// version, so both shapes are accepted.
func (c *Client) GetMailbox(ctx context.Context, email string) (*Mailbox, error) {
	url := fmt.Sprintf("%s/api/v1/get/mailbox/%s", c.baseURL, email)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mailcow request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mailcow error: status %d", res.StatusCode)
	}

	var payload mailboxPayload
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var list []mailboxPayload
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("unmarshal mailbox list: %w", err)
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("mailbox %s not found", email)
		}
		payload = list[0]
	} else {
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal mailbox: %w", err)
		}
	}
	if payload.Username == "" && payload.LocalPart == "" {
		return nil, fmt.Errorf("mailbox %s not found", email)
	}

	name := payload.Name
	if name == "" {
		name = payload.Attributes.Name
	}
	return &Mailbox{
		Name:      name,
		LocalPart: payload.LocalPart,
		Tags:      payload.Tags,
	}, nil
}
