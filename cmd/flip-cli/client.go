package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"

	"github.com/block52/coinflipchain/pkg/api"
)

// Client talks to the coinflipd HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	key     cryptotypes.PrivKey
	now     func() time.Time
}

func NewClient(baseURL string, key cryptotypes.PrivKey) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		key:     key,
		now:     time.Now,
	}
}

// APIError is a failed request as reported by the node.
type APIError struct {
	Status int
	api.ErrorResponse
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%s, http %d)", e.Message, e.Category, e.Status)
}

// Post signs msg and submits it to a /tx route, decoding the response into out.
func (c *Client) Post(ctx context.Context, path string, msg, out any) error {
	if c.key == nil {
		return fmt.Errorf("no key loaded, set --mnemonic or FLIP_MNEMONIC")
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if err := api.SignRequest(req, c.key, body, c.now()); err != nil {
		return err
	}
	return c.do(req, out)
}

// Get runs a query, decoding the response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach node: %w", err)
	}
	defer resp.Body.Close()

	bz, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(bz, &apiErr.ErrorResponse); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(bz))
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(bz, out)
}
