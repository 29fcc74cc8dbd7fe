package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/aceinapril/aceinapril/internal/client/models"
	"github.com/aceinapril/aceinapril/internal/logging"
)

// HTTPClient talks to the record store's PostgREST-style API: collections are
// exposed under /rest/v1/<name> and filters are passed as column=eq.value
// query parameters. The API key travels both as an apikey header and as a
// bearer token.
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     logging.Logger
}

func NewHTTPClient(baseURL string, apiKey string, timeout time.Duration, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		log:     log.With("component", "recordstore"),
	}
}

func (c *HTTPClient) collectionURL(name string, query url.Values) string {
	u := c.baseURL + "/rest/v1/" + name
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do runs one request and maps transport and status failures onto the
// package sentinels. The response body is returned for 2xx answers.
func (c *HTTPClient) do(ctx context.Context, method, rawURL string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServerFault, err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debug(ctx, "record store fault", "status", resp.StatusCode, "url", rawURL)
		return nil, fmt.Errorf("%w: status %d", ErrServerFault, resp.StatusCode)
	}
	return data, nil
}

func decodeList[T any](data []byte) ([]T, error) {
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return out, nil
}

func (c *HTTPClient) FindUserByUsername(ctx context.Context, username string) (*UserRecord, error) {
	q := url.Values{}
	q.Set("username", "eq."+username)
	q.Set("limit", "2")

	data, err := c.do(ctx, http.MethodGet, c.collectionURL("users", q), nil)
	if err != nil {
		return nil, err
	}

	records, err := decodeList[UserRecord](data)
	if err != nil {
		return nil, err
	}
	switch len(records) {
	case 0:
		return nil, ErrNotFound
	case 1:
	default:
		return nil, fmt.Errorf("%w: username %q matches multiple records", ErrServerFault, username)
	}

	rec := records[0]
	if err := rec.User.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return &rec, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	q := url.Values{}
	q.Set("select", "id,username,role,category,created_at")
	q.Set("order", "username.asc")

	data, err := c.do(ctx, http.MethodGet, c.collectionURL("users", q), nil)
	if err != nil {
		return nil, err
	}

	users, err := decodeList[models.User](data)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if err := users[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
	}
	return users, nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, rec NewUserRecord) (*models.User, error) {
	body, err := json.Marshal([]NewUserRecord{rec})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	data, err := c.do(ctx, http.MethodPost, c.collectionURL("users", nil), body)
	if err != nil {
		return nil, err
	}
	created, err := decodeSingle[UserRecord](data)
	if err != nil {
		return nil, err
	}
	return created.Profile(), nil
}

func (c *HTTPClient) QuestionForDate(ctx context.Context, category models.Category, date string) (*models.Question, error) {
	q := url.Values{}
	q.Set("date", "eq."+date)
	q.Set("category", "eq."+string(category))
	q.Set("limit", "1")

	data, err := c.do(ctx, http.MethodGet, c.collectionURL("questions", q), nil)
	if err != nil {
		return nil, err
	}

	questions, err := decodeList[models.Question](data)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNotFound
	}
	question := questions[0]
	if err := question.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return &question, nil
}

func (c *HTTPClient) CreateQuestion(ctx context.Context, question models.Question) (*models.Question, error) {
	body, err := json.Marshal([]models.Question{question})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	data, err := c.do(ctx, http.MethodPost, c.collectionURL("questions", nil), body)
	if err != nil {
		return nil, err
	}
	return decodeSingle[models.Question](data)
}

func (c *HTTPClient) CreateSubmission(ctx context.Context, s models.Submission) (*models.Submission, error) {
	body, err := json.Marshal([]models.Submission{s})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	data, err := c.do(ctx, http.MethodPost, c.collectionURL("submissions", nil), body)
	if err != nil {
		return nil, err
	}
	return decodeSingle[models.Submission](data)
}

func (c *HTTPClient) ListSubmissionsByUser(ctx context.Context, userID string) ([]models.Submission, error) {
	q := url.Values{}
	q.Set("user_id", "eq."+userID)
	q.Set("order", "created_at.desc")

	data, err := c.do(ctx, http.MethodGet, c.collectionURL("submissions", q), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Submission](data)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rest/v1/", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServerFault, err)
	}
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", ErrServerFault, resp.StatusCode)
	}
	return nil
}

// decodeSingle unwraps the one-element array PostgREST returns for inserts
// with return=representation.
func decodeSingle[T any](data []byte) (*T, error) {
	list, err := decodeList[T](data)
	if err != nil {
		return nil, err
	}
	if len(list) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one record, got %d", ErrBadPayload, len(list))
	}
	return &list[0], nil
}
