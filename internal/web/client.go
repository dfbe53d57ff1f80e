package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API returned %d: %s", e.Status, e.Detail)
}

// Client talks to the REST API. Any error that is not an *APIError means
// the API could not be reached.
type Client struct {
	baseURL string
	timeout time.Duration
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

func (cl *Client) Get(path string, out interface{}) error {
	return cl.do(fiber.Get(cl.url(path)), out)
}

func (cl *Client) Post(path string, body, out interface{}) error {
	return cl.do(fiber.Post(cl.url(path)).JSON(body), out)
}

func (cl *Client) Delete(path string) error {
	return cl.do(fiber.Delete(cl.url(path)), nil)
}

// Download returns the raw body and content type of path.
func (cl *Client) Download(path string) ([]byte, string, error) {
	agent := fiber.Get(cl.url(path)).Timeout(cl.timeout)
	if err := agent.Parse(); err != nil {
		return nil, "", fmt.Errorf("failed to build request: %w", err)
	}

	resp := fiber.AcquireResponse()
	defer fiber.ReleaseResponse(resp)

	code, body, errs := agent.SetResponse(resp).Bytes()
	if len(errs) > 0 {
		return nil, "", errors.Join(errs...)
	}
	if code < 200 || code >= 300 {
		return nil, "", &APIError{Status: code, Detail: detailOf(body)}
	}
	return append([]byte(nil), body...), string(resp.Header.ContentType()), nil
}

func (cl *Client) url(path string) string {
	return cl.baseURL + path
}

func (cl *Client) do(agent *fiber.Agent, out interface{}) error {
	agent.Timeout(cl.timeout)
	if err := agent.Parse(); err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if code < 200 || code >= 300 {
		return &APIError{Status: code, Detail: detailOf(body)}
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode API response: %w", err)
	}
	return nil
}

func detailOf(body []byte) string {
	var e struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Detail != "" {
		return e.Detail
	}
	return strings.TrimSpace(string(body))
}
