// Package client is a Go SDK for the storefront API. It keeps the caller's
// session, refuses calls the route table forbids, and maps failed responses
// to typed errors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront/pkg/access"
	"storefront/pkg/cart"

	"github.com/pkg/errors"
)

// Usuario is the public account projection.
type Usuario struct {
	ID     int64  `json:"id"`
	Correo string `json:"correo"`
	Nombre string `json:"nombre,omitempty"`
	Rol    string `json:"rol"`
}

// UsuarioInput creates or updates an account. Password is ignored on update.
type UsuarioInput struct {
	Nombre   string `json:"nombre"`
	Correo   string `json:"correo"`
	Password string `json:"password,omitempty"`
	Rol      string `json:"rol,omitempty"`
}

// Servicio is a catalog entry. The timestamps are only sent to admins.
type Servicio struct {
	ID                 int64      `json:"id"`
	Nombre             string     `json:"nombre"`
	Descripcion        string     `json:"descripcion"`
	Precio             float64    `json:"precio"`
	Stock              bool       `json:"stock"`
	Icono              string     `json:"icono"`
	Activo             bool       `json:"activo"`
	FechaCreacion      *time.Time `json:"fecha_creacion,omitempty"`
	FechaActualizacion *time.Time `json:"fecha_actualizacion,omitempty"`
}

// Product converts the entry for the cart.
func (s Servicio) Product() cart.Product {
	return cart.Product{
		ID:      s.ID,
		Name:    s.Nombre,
		Price:   s.Precio,
		InStock: s.Stock,
	}
}

// ServicioInput creates or replaces a catalog entry. A nil Activo keeps the
// server default.
type ServicioInput struct {
	Nombre      string  `json:"nombre"`
	Descripcion string  `json:"descripcion"`
	Precio      float64 `json:"precio"`
	Stock       bool    `json:"stock"`
	Icono       string  `json:"icono"`
	Activo      *bool   `json:"activo,omitempty"`
}

// VerifyResult is the server's view of the current token.
type VerifyResult struct {
	Valid   bool    `json:"valid"`
	Usuario Usuario `json:"usuario"`
}

// HealthStatus is returned by the health probe.
type HealthStatus struct {
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
}

type envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type authEnvelope struct {
	Message string  `json:"message"`
	Token   string  `json:"token"`
	Usuario Usuario `json:"usuario"`
}

type errorEnvelope struct {
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithErrorHandler registers fn to see every *APIError before it is returned.
func WithErrorHandler(fn func(*APIError)) Option {
	return func(c *Client) { c.onError = fn }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// Client calls the storefront API on behalf of one Session.
type Client struct {
	baseURL string
	session *Session
	http    *http.Client
	onError func(*APIError)
	logger  *slog.Logger
}

// New returns a client for the server at baseURL, e.g. "http://localhost:3000".
func New(baseURL string, session *Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		http:    http.DefaultClient,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Session() *Session {
	return c.session
}

// Login authenticates and stores the session.
func (c *Client) Login(ctx context.Context, correo, password string) (*Usuario, error) {
	var out authEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"correo":   correo,
		"password": password,
	}, &out); err != nil {
		return nil, err
	}

	return c.startSession(out)
}

// Register creates a user account and stores the session.
func (c *Client) Register(ctx context.Context, nombre, correo, password string) (*Usuario, error) {
	var out authEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"nombre":   nombre,
		"correo":   correo,
		"password": password,
	}, &out); err != nil {
		return nil, err
	}

	return c.startSession(out)
}

// Verify asks the server to check the held token.
func (c *Client) Verify(ctx context.Context) (*VerifyResult, error) {
	var out VerifyResult
	if err := c.do(ctx, http.MethodGet, "/api/auth/verify", nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Logout drops the session. Tokens are stateless so the server is not called.
func (c *Client) Logout() error {
	return c.session.Clear()
}

// Servicios lists the active catalog.
func (c *Client) Servicios(ctx context.Context) ([]Servicio, error) {
	return get[[]Servicio](ctx, c, "/api/servicios")
}

// ServiciosAdmin lists every catalog entry, inactive ones included.
func (c *Client) ServiciosAdmin(ctx context.Context) ([]Servicio, error) {
	return get[[]Servicio](ctx, c, "/api/servicios/admin/all")
}

func (c *Client) Servicio(ctx context.Context, id int64) (*Servicio, error) {
	return getOne[Servicio](ctx, c, servicioPath(id))
}

func (c *Client) CreateServicio(ctx context.Context, in ServicioInput) (*Servicio, error) {
	return send[Servicio](ctx, c, http.MethodPost, "/api/servicios", in)
}

func (c *Client) UpdateServicio(ctx context.Context, id int64, in ServicioInput) (*Servicio, error) {
	return send[Servicio](ctx, c, http.MethodPut, servicioPath(id), in)
}

func (c *Client) DeleteServicio(ctx context.Context, id int64) (*Servicio, error) {
	return send[Servicio](ctx, c, http.MethodDelete, servicioPath(id), nil)
}

func (c *Client) Usuarios(ctx context.Context) ([]Usuario, error) {
	return get[[]Usuario](ctx, c, "/api/usuarios")
}

func (c *Client) Usuario(ctx context.Context, id int64) (*Usuario, error) {
	return getOne[Usuario](ctx, c, usuarioPath(id))
}

func (c *Client) CreateUsuario(ctx context.Context, in UsuarioInput) (*Usuario, error) {
	return send[Usuario](ctx, c, http.MethodPost, "/api/usuarios", in)
}

func (c *Client) UpdateUsuario(ctx context.Context, id int64, in UsuarioInput) (*Usuario, error) {
	in.Password = ""

	return send[Usuario](ctx, c, http.MethodPut, usuarioPath(id), in)
}

func (c *Client) DeleteUsuario(ctx context.Context, id int64) (*Usuario, error) {
	return send[Usuario](ctx, c, http.MethodDelete, usuarioPath(id), nil)
}

func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) startSession(out authEnvelope) (*Usuario, error) {
	if out.Token == "" {
		return nil, errors.New("server response carried no token")
	}
	if err := c.session.Set(out.Token, out.Usuario); err != nil {
		return nil, err
	}
	user := out.Usuario

	return &user, nil
}

func get[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out envelope[T]
	err := c.do(ctx, http.MethodGet, path, nil, &out)

	return out.Data, err
}

func getOne[T any](ctx context.Context, c *Client, path string) (*T, error) {
	return send[T](ctx, c, http.MethodGet, path, nil)
}

func send[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	var out envelope[T]
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}

	return &out.Data, nil
}

// do checks the route table, sends the request and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.guard(method, path); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "storefront api call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.String("request_id", resp.Header.Get("X-Request-Id")),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.failure(resp)
	}
	if out == nil {
		return nil
	}

	return errors.Wrap(json.NewDecoder(resp.Body).Decode(out), "failed to decode response")
}

// guard refuses calls the session cannot make before they reach the network.
func (c *Client) guard(method, path string) error {
	capability := access.CapabilityFor(method, path)
	if capability == access.Public || c.session.Allows(method, path) {
		return nil
	}

	if !c.session.IsAuthenticated() {
		if c.session.Token() != "" {
			if err := c.session.Clear(); err != nil {
				c.logger.Warn("failed to clear expired session", slog.Any("error", err))
			}
		}

		return errors.Wrapf(ErrUnauthorized, "%s %s", method, path)
	}

	return errors.Wrapf(ErrForbidden, "%s %s", method, path)
}

func (c *Client) failure(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var body errorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Code = body.Error
		apiErr.Message = body.Message
		apiErr.Details = body.Details
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.session.Clear(); err != nil {
			c.logger.Warn("failed to clear session after 401", slog.Any("error", err))
		}

		return errors.Wrap(ErrUnauthorized, apiErr.Message)
	}

	if c.onError != nil {
		c.onError(apiErr)
	}

	return apiErr
}

func servicioPath(id int64) string {
	return "/api/servicios/" + strconv.FormatInt(id, 10)
}

func usuarioPath(id int64) string {
	return "/api/usuarios/" + strconv.FormatInt(id, 10)
}
