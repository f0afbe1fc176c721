package api

import (
	"context"
	"net/http"
	"time"

	"ojadmin/internal/admin/model"
	"ojadmin/internal/admin/session"
	"ojadmin/internal/admin/transport"
	pkgerrors "ojadmin/pkg/errors"
	"ojadmin/pkg/utils/logger"

	"go.uber.org/zap"
)

// Client exposes the admin backend as typed operations.
type Client struct {
	http    *transport.Client
	session *session.Session
}

// New wraps an already configured transport.
func New(httpClient *transport.Client, sess *session.Session) *Client {
	return &Client{http: httpClient, session: sess}
}

// NewClient builds the transport with the bearer, request id and
// invalidation interceptors bound to sess.
func NewClient(baseURL string, sess *session.Session, opts ...transport.Option) (*Client, error) {
	all := append([]transport.Option{
		transport.WithRequestInterceptor(transport.RequestID()),
		transport.WithRequestInterceptor(transport.BearerAuth(sess)),
		transport.WithResponseInterceptor(transport.InvalidateOnUnauthorized(sess)),
	}, opts...)
	httpClient, err := transport.New(baseURL, all...)
	if err != nil {
		return nil, err
	}
	c := New(httpClient, sess)
	sess.Subscribe(func(_ context.Context, _ session.Invalidated) {
		c.expireCookie()
	})
	return c, nil
}

func (c *Client) Transport() *transport.Client {
	return c.http
}

func (c *Client) Session() *session.Session {
	return c.session
}

// Login exchanges credentials for a token and stores it. Any failure leaves
// the session logged out.
func (c *Client) Login(ctx context.Context, creds Credentials) (*model.LoginResponse, error) {
	resp, err := c.send(ctx, EndpointLogin, "", nil, creds)
	if err != nil {
		c.dropCredential(ctx)
		return nil, err
	}
	var out model.LoginResponse
	if err := EndpointLogin.decode(resp, &out); err != nil {
		c.dropCredential(ctx)
		return nil, err
	}
	if out.Token == "" {
		c.dropCredential(ctx)
		return nil, pkgerrors.New(pkgerrors.TokenInvalid).WithMessage("No token received")
	}
	if err := c.session.SetCredential(ctx, out.Token, 0); err != nil {
		c.dropCredential(ctx)
		return nil, err
	}
	if cred, ok, err := c.session.Credential(ctx); err == nil && ok {
		c.http.SetCookie(cred.Cookie())
	}
	logger.Info(ctx, "admin logged in", zap.String("username", creds.Username))
	return &out, nil
}

// dropCredential clears the stored credential and its cookie copy.
func (c *Client) dropCredential(ctx context.Context) {
	if err := c.session.ClearCredential(ctx); err != nil {
		logger.Warn(ctx, "clear stale credential failed", zap.Error(err))
	}
	c.expireCookie()
}

func (c *Client) expireCookie() {
	c.http.SetCookie(&http.Cookie{Name: session.CookieName, Value: "", Path: "/", MaxAge: -1})
}

// Logout ends the session locally. No backend call is made.
func (c *Client) Logout(ctx context.Context) {
	c.session.Invalidate(ctx, session.ReasonLogout, 0)
}

// RegisterAdmin creates another administrator account.
func (c *Client) RegisterAdmin(ctx context.Context, reg AdminRegistration) error {
	_, err := c.send(ctx, EndpointRegisterAdmin, "", nil, reg)
	return err
}

// SetTimeout changes the per-request timeout; zero disables it.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.http.SetTimeout(timeout)
}

// decodeRecord decodes a create/update response. An empty or id-less body
// yields nil.
func decodeRecord[T model.Identifiable](ctx context.Context, resp transport.Response, ep Endpoint) *T {
	var out T
	if err := ep.decode(resp, &out); err != nil {
		logger.Warn(ctx, "ignore undecodable record", zap.String("op", ep.Name), zap.Error(err))
		return nil
	}
	if out.Key().IsZero() {
		return nil
	}
	return &out
}
