package client

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/session"
)

var errMalformedLogin = errors.New("malformed login response")

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Username = core.CleanString(r.Username, true /* lower */)
	return core.TranslateValidationErrors(core.Validate.Struct(r))
}

// loginResponse is the login endpoint's contract:
// {professor: Identity, token_data: {access_token, expires_in}}.
type loginResponse struct {
	Professor session.Identity      `json:"professor"`
	TokenData session.TokenIssuance `json:"token_data"`
}

// Login authenticates against the backend and activates the session.
// The response shape is validated before the session is touched, so
// session.Store.Login never sees invalid data.
func (c *Client) Login(ctx context.Context, username, password string) (session.Identity, error) {
	data := LoginRequest{Username: username, Password: password}
	if err := data.Validate(); err != nil {
		return session.Identity{}, err
	}

	var resp loginResponse
	if err := c.Request(ctx, http.MethodPost, "/v1/users/login", &data, &resp); err != nil {
		return session.Identity{}, errors.Wrap(err, "logging in")
	}
	if resp.TokenData.AccessToken == "" || resp.TokenData.ExpiresIn <= 0 {
		return session.Identity{}, errMalformedLogin
	}

	c.sessions.Login(resp.Professor, resp.TokenData)
	return resp.Professor, nil
}

// Logout destroys the session; the backend notification is fire-and-forget.
func (c *Client) Logout(ctx context.Context) {
	c.sessions.Logout(ctx)
}

// revokeToken notifies the backend that the token is invalidated. It is
// called by the session store mid-logout, so it sends the token it is given
// rather than reading the (already cleared) session slot.
func (c *Client) revokeToken(ctx context.Context, token string) error {
	url := c.baseURL + "/v1/users/logout"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return errors.Wrap(err, "building revocation request")
	}
	req.Header.Set("Authorization", bearerPrefix+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return &core.TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return core.NewAPIError(resp.StatusCode, http.StatusText(resp.StatusCode), "")
	}
	return nil
}
