// Package client implements the authenticated transport to the Academia
// backend: every request carries the current bearer token, and a rotated
// token echoed back by the server is applied to the session before the call
// returns.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/session"
)

const bearerPrefix = "Bearer "

type Client struct {
	baseURL  string
	http     *http.Client
	sessions *session.Store
	logger   core.Logger
}

func New(conf *core.Config, sessions *session.Store, logger core.Logger) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(conf.Server.BaseURL, "/"),
		http:     &http.Client{Timeout: conf.Server.Timeout},
		sessions: sessions,
		logger:   logger,
	}
	sessions.SetRevoker(c.revokeToken)
	return c
}

// Result is the outcome of a single transport call. RotatedToken is set when
// the server echoed a replacement bearer token in the response's
// Authorization header; it is reported explicitly rather than applied as a
// hidden side effect of the call.
type Result struct {
	Payload      json.RawMessage
	RotatedToken string
}

// Do performs one HTTP call against the backend, decorated with the current
// bearer token when one exists. It may be called while anonymous; the server
// rejects with an auth error which is propagated like any other failure.
// Non-2xx responses yield a *core.APIError; when no response is obtained at
// all the error is a *core.TransportError. A rotated token is returned in
// the Result even alongside an error.
func (c *Client) Do(ctx context.Context, method, path string, body interface{}) (Result, error) {
	var res Result

	var payload *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return res, errors.Wrap(err, "marshaling request body")
		}
		payload = bytes.NewBuffer(data)
	} else {
		payload = &bytes.Buffer{}
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return res, errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.sessions.Token(); token != "" {
		req.Header.Set("Authorization", bearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return res, &core.TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	// a rotated token may ride on any response, success or not
	if auth := resp.Header.Get("Authorization"); strings.HasPrefix(auth, bearerPrefix) {
		res.RotatedToken = strings.TrimPrefix(auth, bearerPrefix)
	}

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return res, &core.TransportError{URL: url, Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		res.Payload = data
		return res, nil
	}
	return res, normalizeError(resp.StatusCode, data)
}

// Request performs the call and applies any rotated token to the session
// before returning, so an immediately-following request already sends the
// new token. The payload is unmarshaled into out when both are present.
func (c *Client) Request(ctx context.Context, method, path string, body, out interface{}) error {
	res, err := c.Do(ctx, method, path, body)
	if res.RotatedToken != "" {
		c.sessions.RotateToken(res.RotatedToken)
	}
	if err != nil {
		return err
	}
	if out != nil && len(res.Payload) > 0 {
		if err := json.Unmarshal(res.Payload, out); err != nil {
			return errors.Wrapf(err, "unmarshaling %s %s response", method, path)
		}
	}
	return nil
}

// normalizeError maps a non-2xx response to an APIError, degrading to the
// status description when the body is not a parseable error object.
func normalizeError(status int, body []byte) error {
	apiErr := core.NewAPIError(status, http.StatusText(status), "")
	var parsed struct {
		Message string `json:"message"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		apiErr.Message = parsed.Message
		apiErr.Details = parsed.Details
	}
	return apiErr
}
