// Package remote talks to an external document processor over HTTP.
package remote

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Request is the processor's wire request. Content is base64.
type Request struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Reply is the processor's wire reply.
type Reply struct {
	Success  bool   `json:"success"`
	Text     string `json:"text,omitempty"`
	Error    string `json:"error,omitempty"`
	FileName string `json:"fileName,omitempty"`
}

type ErrorKind string

const (
	KindNetwork   ErrorKind = "network"
	KindStatus    ErrorKind = "status"
	KindMalformed ErrorKind = "malformed"
	KindRejected  ErrorKind = "rejected"
)

// ServiceError is returned for every failed processor call.
type ServiceError struct {
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *ServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote processor %s (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("remote processor %s: %v", e.Kind, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// IsServiceError reports whether err came from a processor call.
func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}

type Config struct {
	URL     string
	Timeout time.Duration
}

type Client struct {
	url    string
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		url:    cfg.URL,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Process sends one document and returns the text the processor extracted.
func (c *Client) Process(ctx context.Context, name, mimeType string, data []byte) (string, error) {
	req := Request{
		Name:    name,
		Type:    mimeType,
		Content: base64.StdEncoding.EncodeToString(data),
	}

	raw, status, err := SendJSON(ctx, c.http, c.url, req, nil, c.logger)
	if err != nil {
		if status != 0 {
			return "", &ServiceError{Kind: KindStatus, Status: status, Err: err}
		}
		return "", &ServiceError{Kind: KindNetwork, Err: err}
	}

	if err := ValidateReply(raw); err != nil {
		c.logger.Warn("remote.reply.invalid", "name", name, "error", err)
		return "", &ServiceError{Kind: KindMalformed, Status: status, Err: err}
	}

	var reply Reply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return "", &ServiceError{Kind: KindMalformed, Status: status, Err: err}
	}
	if !reply.Success {
		msg := reply.Error
		if msg == "" {
			msg = "processing failed"
		}
		return "", &ServiceError{Kind: KindRejected, Status: status, Err: errors.New(msg)}
	}
	if strings.TrimSpace(reply.Text) == "" {
		return "", &ServiceError{Kind: KindRejected, Status: status, Err: errors.New("empty text in successful reply")}
	}

	c.logger.Info("remote.reply.ok", "name", name, "length", len(reply.Text))
	return reply.Text, nil
}
