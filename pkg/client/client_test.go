package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"storefront/pkg/localstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	t     *testing.T
	token string
	calls atomic.Int32
	mux   *http.ServeMux
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()

	api := &fakeAPI{t: t, token: signToken(t, time.Now().Add(time.Hour)), mux: http.NewServeMux()}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.calls.Add(1)
		api.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	return api, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()

	s, err := NewSession(localstore.NewMemoryStore())
	require.NoError(t, err)

	return New(baseURL, s, opts...)
}

func TestClient_LoginStoresSessionAndSendsBearer(t *testing.T) {
	api, srv := newFakeAPI(t)

	api.mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "admin@techsolutions.com", body["correo"])
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Login exitoso",
			"token":   api.token,
			"usuario": adminUser,
		})
	})
	api.mux.HandleFunc("GET /api/servicios/admin/all", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+api.token, r.Header.Get("Authorization"))

		writeJSON(w, http.StatusOK, map[string]any{
			"data": []map[string]any{
				{"id": 1, "nombre": "Servicio de nube", "precio": 300000, "stock": true, "activo": false, "fecha_creacion": "2026-01-02T03:04:05Z"},
			},
			"total": 1,
		})
	})

	c := newTestClient(t, srv.URL+"/")
	user, err := c.Login(context.Background(), "admin@techsolutions.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Rol)
	assert.True(t, c.Session().IsAdmin())

	items, err := c.ServiciosAdmin(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].Activo)
	require.NotNil(t, items[0].FechaCreacion)
	assert.Equal(t, 2026, items[0].FechaCreacion.Year())

	product := items[0].Product()
	assert.Equal(t, int64(1), product.ID)
	assert.True(t, product.InStock)
}

func TestClient_GuardBlocksBeforeSending(t *testing.T) {
	api, srv := newFakeAPI(t)

	t.Run("anonymous", func(t *testing.T) {
		c := newTestClient(t, srv.URL)

		_, err := c.Usuarios(context.Background())
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("user role on admin route", func(t *testing.T) {
		c := newTestClient(t, srv.URL)
		require.NoError(t, c.Session().Set(api.token, Usuario{ID: 2, Correo: "ana@example.com", Rol: "user"}))

		_, err := c.DeleteServicio(context.Background(), 3)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.NotEmpty(t, c.Session().Token())
	})

	t.Run("expired token is cleared", func(t *testing.T) {
		c := newTestClient(t, srv.URL)
		require.NoError(t, c.Session().Set(signToken(t, time.Now().Add(-time.Hour)), adminUser))

		_, err := c.Verify(context.Background())
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.Empty(t, c.Session().Token())
	})

	assert.Zero(t, api.calls.Load())
}

func TestClient_UnauthorizedClearsSession(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.mux.HandleFunc("GET /api/auth/verify", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error":   "INVALID_TOKEN",
			"message": "Token inválido",
		})
	})

	var notified []*APIError
	c := newTestClient(t, srv.URL, WithErrorHandler(func(e *APIError) { notified = append(notified, e) }))
	require.NoError(t, c.Session().Set(api.token, adminUser))

	_, err := c.Verify(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "Token inválido")
	assert.Empty(t, c.Session().Token())
	assert.Empty(t, notified)
}

func TestClient_APIErrorNotified(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.mux.HandleFunc("POST /api/servicios", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "VALIDATION_FAILED",
			"message": "Datos de entrada inválidos",
			"details": []map[string]string{{"field": "nombre", "message": "debe tener al menos 3 caracteres"}},
		})
	})
	api.mux.HandleFunc("GET /api/servicios/7", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":   "SERVICE_NOT_FOUND",
			"message": "Servicio no encontrado",
		})
	})

	var notified []*APIError
	c := newTestClient(t, srv.URL, WithErrorHandler(func(e *APIError) { notified = append(notified, e) }))
	require.NoError(t, c.Session().Set(api.token, adminUser))

	_, err := c.CreateServicio(context.Background(), ServicioInput{Nombre: "ab"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "VALIDATION_FAILED", apiErr.Code)
	assert.Equal(t, []FieldError{{Field: "nombre", Message: "debe tener al menos 3 caracteres"}}, apiErr.FieldErrors())

	_, err = c.Servicio(context.Background(), 7)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Recurso no encontrado.", apiErr.UserMessage())

	require.Len(t, notified, 2)
	assert.NotEmpty(t, c.Session().Token())
}

func TestClient_UpdateUsuarioDropsPassword(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.mux.HandleFunc("PUT /api/usuarios/4", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "password")

		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Usuario actualizado exitosamente",
			"data":    map[string]any{"id": 4, "nombre": "Ana", "correo": "ana@example.com", "rol": "admin"},
		})
	})

	c := newTestClient(t, srv.URL)
	require.NoError(t, c.Session().Set(api.token, adminUser))

	user, err := c.UpdateUsuario(context.Background(), 4, UsuarioInput{
		Nombre: "Ana", Correo: "ana@example.com", Password: "secret", Rol: "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Rol)
}

func TestClient_PublicCallsNeedNoSession(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.mux.HandleFunc("GET /api/servicios", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"data": []any{}, "total": 0})
	})
	api.mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"message":     "TechSolutions Backend API funcionando correctamente",
			"timestamp":   "2026-10-15T10:00:00Z",
			"environment": "test",
		})
	})

	c := newTestClient(t, srv.URL)

	items, err := c.Servicios(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)

	health, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(health.Message, "TechSolutions"))
	assert.Equal(t, "test", health.Environment)
}
