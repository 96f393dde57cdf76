package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/config"
	apimiddleware "storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/router"
	"storefront/internal/delivery/api/router/handler"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/infra/metrics"
	"storefront/internal/infra/ratelimit"
	mockUC "storefront/internal/mocks/usecase"
	"storefront/internal/usecase"
	"storefront/pkg/access"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	adminToken = "admin-token"
	userToken  = "user-token"
)

var (
	adminIdentity = entity.Identity{AccountID: 1, Email: "admin@techsolutions.com", Role: entity.RoleAdmin}
	userIdentity  = entity.Identity{AccountID: 2, Email: "ana@example.com", Role: entity.RoleUser}
)

type serverFixtures struct {
	echo      *echo.Echo
	metrics   *metrics.Metrics
	authUC    *mockUC.MockAuthUsecase
	accountUC *mockUC.MockAccountUsecase
	catalogUC *mockUC.MockCatalogUsecase
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Env.Env = "production"
	cfg.HTTP.MaxRequestBodySize = "10M"
	cfg.CORS.Origin = "http://localhost:4200"
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, Window: time.Minute, Max: 1000}
	cfg.Metrics = config.MetricsConfig{Enabled: true, Path: "/metrics"}

	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) serverFixtures {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewWithNamespace("test")

	authUC := mockUC.NewMockAuthUsecase(t)
	accountUC := mockUC.NewMockAccountUsecase(t)
	catalogUC := mockUC.NewMockCatalogUsecase(t)

	authUC.EXPECT().Verify(mock.Anything, adminToken).Return(adminIdentity, nil).Maybe()
	authUC.EXPECT().Verify(mock.Anything, userToken).Return(userIdentity, nil).Maybe()

	e := newEcho(ServerParams{
		Cfg:             cfg,
		Logger:          logger,
		Metrics:         m,
		LimiterStore:    ratelimit.NewMemoryStore(cfg.RateLimit.Max, cfg.RateLimit.Window),
		ErrorMiddleware: apimiddleware.NewErrorMiddleware(logger, cfg),
		RouterParams: router.RouterParams{
			AuthHandler:    handler.NewAuthHandler(authUC, m),
			AccountHandler: handler.NewAccountHandler(accountUC),
			CatalogHandler: handler.NewCatalogHandler(catalogUC),
			HealthHandler:  handler.NewHealthHandler(cfg),
			AuthMiddleware: apimiddleware.NewAuthMiddleware(authUC),
		},
	})

	return serverFixtures{echo: e, metrics: m, authUC: authUC, accountUC: accountUC, catalogUC: catalogUC}
}

func do(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())

	return body
}

func TestServer_RegistersEveryTableRoute(t *testing.T) {
	fx := newTestServer(t, testConfig())

	registered := make(map[string]bool)
	for _, route := range fx.echo.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, route := range access.Routes {
		assert.True(t, registered[route.Method+" "+route.Path], "route %s %s is not registered", route.Method, route.Path)
	}
}

func TestServer_UnknownRoute(t *testing.T) {
	fx := newTestServer(t, testConfig())

	rec := do(fx.echo, http.MethodGet, "/api/pedidos", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ROUTE_NOT_FOUND", body["error"])
	assert.NotEmpty(t, body["meta"].(map[string]any)["request_id"])
}

func TestServer_CapabilityGate(t *testing.T) {
	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"no header", "", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"wrong scheme", "Token abc", http.StatusUnauthorized, "MALFORMED_TOKEN"},
		{"user on admin route", "Bearer " + userToken, http.StatusForbidden, "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newTestServer(t, testConfig())

			req := httptest.NewRequest(http.MethodGet, "/api/servicios/admin/all", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			fx.echo.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decode(t, rec)["error"])
		})
	}
}

func TestServer_ExpiredToken(t *testing.T) {
	fx := newTestServer(t, testConfig())
	fx.authUC.EXPECT().Verify(mock.Anything, "old").Return(entity.Identity{}, domainerrors.ErrExpiredToken)

	rec := do(fx.echo, http.MethodGet, "/api/usuarios", "old", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "EXPIRED_TOKEN", decode(t, rec)["error"])
}

func TestServer_AdminListsEveryItem(t *testing.T) {
	fx := newTestServer(t, testConfig())

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	fx.catalogUC.EXPECT().ListAll(mock.Anything).Return([]*entity.CatalogItem{
		{ID: 1, Name: "Servicio de nube", Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: 2, Name: "Hosting", Active: false, CreatedAt: now, UpdatedAt: now},
	}, nil)

	rec := do(fx.echo, http.MethodGet, "/api/servicios/admin/all", adminToken, "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(2), body["total"])
	items := body["data"].([]any)
	assert.Contains(t, items[1].(map[string]any), "fecha_creacion")
	assert.Equal(t, false, items[1].(map[string]any)["activo"])
}

func TestServer_PublicListHidesTimestamps(t *testing.T) {
	fx := newTestServer(t, testConfig())

	fx.catalogUC.EXPECT().ListActive(mock.Anything).Return([]*entity.CatalogItem{
		{ID: 1, Name: "Servicio de nube", Price: 300000, InStock: true, Icon: "bi-cloud", Active: true},
	}, nil)

	rec := do(fx.echo, http.MethodGet, "/api/servicios", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Servicios obtenidos exitosamente", body["message"])
	item := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "bi-cloud", item["icono"])
	assert.NotContains(t, item, "fecha_creacion")
}

func TestServer_InvalidID(t *testing.T) {
	fx := newTestServer(t, testConfig())

	rec := do(fx.echo, http.MethodGet, "/api/servicios/abc", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ID", decode(t, rec)["error"])
}

func TestServer_CatalogValidation(t *testing.T) {
	fx := newTestServer(t, testConfig())

	rec := do(fx.echo, http.MethodPost, "/api/servicios", adminToken,
		`{"nombre":"ab","descripcion":"corta","precio":-1,"icono":"fa-x"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", body["error"])

	fields := make(map[string]bool)
	for _, d := range body["details"].([]any) {
		fields[d.(map[string]any)["field"].(string)] = true
	}
	for _, f := range []string{"nombre", "descripcion", "precio", "icono", "stock"} {
		assert.True(t, fields[f], "missing detail for %s", f)
	}
}

func TestServer_CatalogRequiresIcon(t *testing.T) {
	fx := newTestServer(t, testConfig())

	rec := do(fx.echo, http.MethodPost, "/api/servicios", adminToken,
		`{"nombre":"Hosting","descripcion":"Servidores compartidos","precio":1000,"stock":true}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", body["error"])

	details := body["details"].([]any)
	require.Len(t, details, 1)
	assert.Equal(t, "icono", details[0].(map[string]any)["field"])
}

func TestServer_CatalogNameTooLong(t *testing.T) {
	fx := newTestServer(t, testConfig())

	rec := do(fx.echo, http.MethodPost, "/api/servicios", adminToken,
		`{"nombre":"`+strings.Repeat("n", 121)+`","descripcion":"Servidores compartidos","precio":1000,"stock":true,"icono":"bi-hdd"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	details := body["details"].([]any)
	require.Len(t, details, 1)
	assert.Equal(t, "nombre", details[0].(map[string]any)["field"])
}

func TestServer_RegisterTakenEmailWithEmptyPassword(t *testing.T) {
	fx := newTestServer(t, testConfig())
	fx.authUC.EXPECT().
		Register(mock.Anything, mock.MatchedBy(func(in usecase.RegisterInput) bool {
			return in.Email == "ana@example.com" && in.Password == ""
		})).
		Return(nil, domainerrors.ErrAccountAlreadyExists)

	rec := do(fx.echo, http.MethodPost, "/api/auth/register", "",
		`{"nombre":"Ana","correo":"ana@example.com","password":""}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ACCOUNT_ALREADY_EXISTS", decode(t, rec)["error"])
}

func TestServer_MalformedBody(t *testing.T) {
	fx := newTestServer(t, testConfig())

	rec := do(fx.echo, http.MethodPost, "/api/auth/login", "", `{"correo":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_BODY", decode(t, rec)["error"])
}

func TestServer_SelfDeletion(t *testing.T) {
	fx := newTestServer(t, testConfig())
	fx.accountUC.EXPECT().Delete(mock.Anything, adminIdentity, int64(1)).Return(nil, domainerrors.ErrSelfDeletion)

	rec := do(fx.echo, http.MethodDelete, "/api/usuarios/1", adminToken, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "SELF_DELETION", decode(t, rec)["error"])
}

func TestServer_VerifyEchoesTokenIdentity(t *testing.T) {
	fx := newTestServer(t, testConfig())

	rec := do(fx.echo, http.MethodGet, "/api/auth/verify", userToken, "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["valid"])
	usuario := body["usuario"].(map[string]any)
	assert.Equal(t, float64(2), usuario["id"])
	assert.Equal(t, "ana@example.com", usuario["correo"])
	assert.Equal(t, "user", usuario["rol"])
}

func TestServer_Health(t *testing.T) {
	fx := newTestServer(t, testConfig())

	rec := do(fx.echo, http.MethodGet, "/api/health", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "production", body["environment"])
	assert.NotEmpty(t, body["timestamp"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestServer_InternalErrorMessage(t *testing.T) {
	t.Run("production hides the cause", func(t *testing.T) {
		fx := newTestServer(t, testConfig())
		fx.catalogUC.EXPECT().ListActive(mock.Anything).Return(nil, errors.New("pq: connection refused"))

		rec := do(fx.echo, http.MethodGet, "/api/servicios", "", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "INTERNAL_ERROR", body["error"])
		assert.NotContains(t, body["message"], "connection refused")
	})

	t.Run("development shows the cause", func(t *testing.T) {
		cfg := testConfig()
		cfg.Env.Env = config.EnvDevelopment
		fx := newTestServer(t, cfg)
		fx.catalogUC.EXPECT().ListActive(mock.Anything).Return(nil, errors.New("pq: connection refused"))

		rec := do(fx.echo, http.MethodGet, "/api/servicios", "", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, decode(t, rec)["message"], "connection refused")
	})
}

func TestServer_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Max = 2
	fx := newTestServer(t, cfg)

	for range 2 {
		rec := do(fx.echo, http.MethodGet, "/api/health", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := do(fx.echo, http.MethodGet, "/api/health", "", "")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", decode(t, rec)["error"])
	assert.InDelta(t, 1, testutil.ToFloat64(fx.metrics.RateLimitRejectedTotal), 0)

	// The limiter only guards /api.
	assert.Equal(t, http.StatusOK, do(fx.echo, http.MethodGet, "/metrics", "", "").Code)
}

func TestServer_CORSPreflight(t *testing.T) {
	fx := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/servicios", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:4200")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	fx.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:4200", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
}

func TestServer_RecordsRequestMetrics(t *testing.T) {
	fx := newTestServer(t, testConfig())

	do(fx.echo, http.MethodGet, "/api/health", "", "")

	assert.InDelta(t, 1, testutil.ToFloat64(
		fx.metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/health", "200")), 0)
}
