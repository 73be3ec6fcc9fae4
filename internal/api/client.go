// Package api is the HTTP/JSON client for the tutor backend. Every method
// maps to one backend endpoint; non-2xx responses are turned into
// *TransportError with the body's {"error": ...} field (or raw text) as the
// message, and 2xx bodies are validated before being admitted into the
// data model.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to the tutor backend. Requests share one bounded timeout;
// there is no automatic retry — every action is re-invocable by the user.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the backend at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Bootstrap exchanges the platform identity blob for a session and user.
func (c *Client) Bootstrap(ctx context.Context, initData string) (BootstrapResult, error) {
	var out BootstrapResult
	err := c.postJSON(ctx, "bootstrap", "/api/webapp/bootstrap", bootstrapRequest{InitData: initData}, &out)
	if err != nil {
		return BootstrapResult{}, err
	}
	if out.SessionID == "" || out.User.ID == 0 {
		return BootstrapResult{}, &MalformedResponseError{Op: "bootstrap", Err: fmt.Errorf("missing session_id or user")}
	}
	return out, nil
}

// Sentences fetches up to limit pending practice sentences. Zero items is a
// valid "nothing pending" result, not an error. Items without a positive
// stable id are dropped at the boundary.
func (c *Client) Sentences(ctx context.Context, initData string, limit int) ([]SentenceItem, error) {
	var out sentencesResponse
	err := c.postJSON(ctx, "load sentences", "/api/webapp/sentences", limitedRequest{InitData: initData, Limit: limit}, &out)
	if err != nil {
		return nil, err
	}
	items := out.Items[:0]
	for _, it := range out.Items {
		if it.IDForMistakeTable <= 0 {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

// Submit sends a grading-round submission and returns per-sentence results.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) ([]GradeItem, error) {
	var out submitResponse
	if err := c.postJSON(ctx, "submit", "/api/message", req, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// SubmitGroup broadcasts the current drafts to the moderation channel.
func (c *Client) SubmitGroup(ctx context.Context, initData string, pairs []TranslationPair) error {
	return c.postJSON(ctx, "group submit", "/api/webapp/submit-group", groupRequest{InitData: initData, Translations: pairs}, nil)
}

// Finish closes the current practice session.
func (c *Client) Finish(ctx context.Context, initData string) (string, error) {
	var out finishResponse
	if err := c.postJSON(ctx, "finish", "/api/webapp/finish", bootstrapRequest{InitData: initData}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// History fetches recent grading rounds.
func (c *Client) History(ctx context.Context, initData string, limit int) ([]HistoryItem, error) {
	var out historyResponse
	if err := c.postJSON(ctx, "history", "/api/webapp/history", limitedRequest{InitData: initData, Limit: limit}, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// LookupWord asks the backend dictionary for a word. The returned raw JSON
// has already been validated against the dictionary entry schema.
func (c *Client) LookupWord(ctx context.Context, initData, word string) (json.RawMessage, error) {
	var out struct {
		Item json.RawMessage `json:"item"`
	}
	if err := c.postJSON(ctx, "dictionary lookup", "/api/webapp/dictionary/lookup", lookupRequest{InitData: initData, Word: word}, &out); err != nil {
		return nil, err
	}
	if err := validateDictionaryEntry(out.Item); err != nil {
		return nil, &MalformedResponseError{Op: "dictionary lookup", Err: err}
	}
	return out.Item, nil
}

// SaveWord persists a previously looked-up entry to the user's dictionary.
// raw must be the exact JSON returned by LookupWord.
func (c *Client) SaveWord(ctx context.Context, initData, wordRU string, raw json.RawMessage) error {
	return c.postJSON(ctx, "dictionary save", "/api/webapp/dictionary/save", saveRequest{InitData: initData, WordRU: wordRU, ResponseJSON: string(raw)}, nil)
}

// RoomToken fetches a voice-room join token. The room connection itself is
// handled by an external client.
func (c *Client) RoomToken(ctx context.Context, userID int64, username string) (string, error) {
	const op = "room token"

	q := url.Values{}
	q.Set("user_id", strconv.FormatInt(userID, 10))
	q.Set("username", username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/token?"+q.Encode(), nil)
	if err != nil {
		return "", &TransportError{Op: op, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{Op: op, Status: resp.StatusCode, Message: errorMessage(body, resp.StatusCode)}
	}

	var out tokenResponse
	if err := json.Unmarshal(body, &out); err != nil || out.Token == "" {
		return "", &MalformedResponseError{Op: op, Err: fmt.Errorf("no token in response")}
	}
	return out.Token, nil
}

// postJSON posts body as JSON and decodes a 2xx response into out (out may
// be nil when only the ack matters).
func (c *Client) postJSON(ctx context.Context, op, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Op: op, Status: resp.StatusCode, Message: errorMessage(raw, resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &MalformedResponseError{Op: op, Err: err}
	}
	return nil
}

// errorMessage extracts a human-readable message from an error body:
// JSON {"error": "..."} when possible, otherwise the raw text, otherwise
// the standard status text.
func errorMessage(body []byte, status int) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return s
	}
	return http.StatusText(status)
}
