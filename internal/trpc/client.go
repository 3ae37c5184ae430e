package trpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client calls procedures over HTTP using the same wire format as Handler.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient targets endpoint, e.g. "http://localhost:3000/api/trpc".
// A nil httpClient gets a client with a 10s timeout.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     httpClient,
	}
}

// Query issues a GET call. When the procedure returns no data, out is left untouched.
func (c *Client) Query(ctx context.Context, path string, input any, out any) error {
	target := c.endpoint + "/" + path
	if input != nil {
		payload, err := json.Marshal(input)
		if err != nil {
			return fmt.Errorf("encode input: %w", err)
		}
		target += "?input=" + url.QueryEscape(string(payload))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// Mutate issues a POST call with input as the JSON body.
func (c *Client) Mutate(ctx context.Context, path string, input any, out any) error {
	payload, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("encode input: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/"+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

type clientResponse struct {
	Result *struct {
		Data json.RawMessage `json:"data"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
		Data    struct {
			Code   Code    `json:"code"`
			Issues []Issue `json:"issues"`
		} `json:"data"`
	} `json:"error"`
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var decoded clientResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fmt.Errorf("unexpected response (status %d): %w", resp.StatusCode, err)
	}
	if decoded.Error != nil {
		code := decoded.Error.Data.Code
		if code == "" {
			code = codeFromJSONRPC(decoded.Error.Code)
		}
		return &Error{Code: code, Message: decoded.Error.Message, Issues: decoded.Error.Data.Issues}
	}
	if decoded.Result == nil {
		return fmt.Errorf("unexpected response (status %d): missing result", resp.StatusCode)
	}
	data := bytes.TrimSpace(decoded.Result.Data)
	if out == nil || len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}
