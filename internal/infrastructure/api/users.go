package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/mediride/transit-client/internal/core/domain"
	"github.com/mediride/transit-client/internal/core/ports"
)

// Users wraps the /users endpoints: authentication plus the profile
// resource. Path construction and envelope unwrapping only.
type Users struct {
	c *Client
}

var (
	_ ports.AuthAPI = (*Users)(nil)
	_ ports.UserAPI = (*Users)(nil)
)

func NewUsers(c *Client) *Users {
	return &Users{c: c}
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (u *Users) Login(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	var raw json.RawMessage
	req := Request{
		Method: http.MethodPost,
		Path:   "/users/login",
		Body:   credentialsBody{Email: email, Password: password},
	}
	if err := u.c.Do(ctx, req, &raw); err != nil {
		return nil, err
	}
	return decodeAuthSession(raw)
}

func (u *Users) Register(ctx context.Context, input domain.RegisterInput) (*domain.AuthSession, error) {
	var raw json.RawMessage
	req := Request{
		Method: http.MethodPost,
		Path:   "/users/register",
		Body:   input,
	}
	if err := u.c.Do(ctx, req, &raw); err != nil {
		return nil, err
	}
	return decodeAuthSession(raw)
}

func (u *Users) Logout(ctx context.Context) error {
	req := Request{
		Method:       http.MethodPost,
		Path:         "/users/logout",
		RequiresAuth: true,
	}
	return u.c.Do(ctx, req, nil)
}

func (u *Users) Me(ctx context.Context) (*domain.User, error) {
	var raw json.RawMessage
	req := Request{
		Method:       http.MethodGet,
		Path:         "/users/me",
		RequiresAuth: true,
	}
	if err := u.c.Do(ctx, req, &raw); err != nil {
		return nil, err
	}
	return Unwrap[domain.User](raw, "user")
}

func (u *Users) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	var raw json.RawMessage
	req := Request{
		Method:       http.MethodPut,
		Path:         fmt.Sprintf("/users/%s", url.PathEscape(user.ID)),
		Body:         user,
		RequiresAuth: true,
	}
	if err := u.c.Do(ctx, req, &raw); err != nil {
		return nil, err
	}
	return Unwrap[domain.User](raw, "user")
}

func (u *Users) UploadAvatar(ctx context.Context, userID, filename string, r io.Reader) (*domain.User, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("/users/%s/avatar", url.PathEscape(userID))
	if err := u.c.Upload(ctx, path, "avatar", filename, r, &raw); err != nil {
		return nil, err
	}
	return Unwrap[domain.User](raw, "user")
}

// decodeAuthSession tolerates both the bare {"token":…, "user":…} shape and
// the {"data": {…}} wrapped one, and insists on a complete pair: a token
// without a user (or vice versa) is a malformed login response.
func decodeAuthSession(raw []byte) (*domain.AuthSession, error) {
	sess, err := Unwrap[domain.AuthSession](raw, "data")
	if err != nil {
		return nil, err
	}
	sess.Token = domain.NormalizeToken(sess.Token)
	if sess.Token == "" || sess.User == nil {
		return nil, fmt.Errorf("api: incomplete auth response")
	}
	return sess, nil
}
