package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"linkcook-go/internal/api"
)

const maxBodySize = 4 << 20

// REST issues JSON requests against the service and unwraps the response
// envelope. Every failure comes back as *Error.
type REST struct {
	baseURL string
	http    *http.Client
	session *Session
}

func NewREST(baseURL string, httpClient *http.Client, session *Session) *REST {
	return &REST{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		session: session,
	}
}

func (c *REST) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *REST) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *REST) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *REST) Delete(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodDelete, path, body, out)
}

func (c *REST) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindValidation, Message: "encode request", Err: err}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Kind: KindTransport, Message: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token, err := c.session.token(ctx)
	if err != nil {
		return &Error{Kind: KindUnauthenticated, Message: "load token", Err: err}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Message: fmt.Sprintf("%s %s", method, path), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &Error{Kind: KindTransport, Status: resp.StatusCode, Message: "read response", Err: err}
	}

	var envelope api.Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return responseError(resp.StatusCode, api.Envelope{Message: http.StatusText(resp.StatusCode)})
		}
		return &Error{Kind: KindTransport, Status: resp.StatusCode, Message: "decode response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || !envelope.Success {
		return responseError(resp.StatusCode, envelope)
	}

	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &Error{Kind: KindTransport, Status: resp.StatusCode, Message: "decode data", Err: err}
	}
	return nil
}

// responseError classifies a rejection by its code, falling back to the
// HTTP status when the code is unknown.
func responseError(status int, envelope api.Envelope) *Error {
	kind := kindForCode(envelope.Code)
	if kind == "" {
		kind = kindForStatus(status)
	}
	message := envelope.Message
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error{Kind: kind, Status: status, Code: envelope.Code, Message: message}
}

func kindForCode(code string) Kind {
	switch code {
	case api.CodeUnauthenticated:
		return KindUnauthenticated
	case api.CodeForbidden:
		return KindForbidden
	case api.CodeAlreadyClosed:
		return KindAlreadyClosed
	case api.CodeCapacityExceeded:
		return KindCapacityExceeded
	case api.CodeNotFound:
		return KindNotFound
	case api.CodeInvalidRequest, api.CodeInvalidJSON:
		return KindValidation
	case api.CodeConflict:
		return KindConflict
	default:
		return ""
	}
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthenticated
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return KindValidation
	default:
		return KindTransport
	}
}
