package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/shop-analyzer-api/infrastructure/repository"
	"github.com/vfg2006/shop-analyzer-api/internal/api/handler/router"
	"github.com/vfg2006/shop-analyzer-api/internal/config"
	"github.com/vfg2006/shop-analyzer-api/internal/domain"
	"github.com/vfg2006/shop-analyzer-api/internal/usecases/analyzing"
	"github.com/vfg2006/shop-analyzer-api/internal/usecases/authenticating"
	"github.com/vfg2006/shop-analyzer-api/pkg/apiErrors"
	"github.com/vfg2006/shop-analyzer-api/pkg/middleware"
	"golang.org/x/crypto/bcrypt"
)

const profileText = "BoutiqueX\nÀ propos\n120 Abonnés\nÉvaluations des membres (40)\n" +
	"Veste cuir, prix : 45,00 €, marque : Zara, taille : M\n120 vues\nVendu"

const otherProfileText = "Chez Lulu\nÀ propos\n80 Abonnés\nÉvaluations des membres (10)\n" +
	"Robe, prix : 20,00 €, marque : Zara, taille : S\n10 vues"

type fakeCronJob struct {
	triggered int
}

func (f *fakeCronJob) TriggerManualSync() { f.triggered++ }

func (f *fakeCronJob) GetStatus() map[string]any {
	return map[string]any{"running": false, "triggered": f.triggered}
}

type testServer struct {
	handler http.Handler
	cronJob *fakeCronJob
}

func newTestServer(t *testing.T, authEnabled bool) *testServer {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3nh@forte"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		Analysis: config.Analysis{MaxTextBytes: 1024},
		History:  config.History{Size: 10},
		Auth: config.Auth{
			Enabled:  authEnabled,
			Secret:   "segredo-de-teste",
			TokenTTL: time.Hour,
			Operators: []domain.Operator{
				{Email: "admin@loja.fr", RoleID: domain.RoleAdmin, PasswordHash: string(hash)},
				{Email: "analista@loja.fr", RoleID: domain.RoleAnalyst, PasswordHash: string(hash)},
			},
		},
	}

	analyzer := analyzing.NewService(repository.NewMemoryHistoryRepository(cfg.History.Size), nil, cfg,
		analyzing.WithClock(func() time.Time { return time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC) }),
		analyzing.WithIDGenerator(func() (string, error) { return "abc123", nil }),
	)
	authenticator := authenticating.NewService(cfg)
	cronJob := &fakeCronJob{}

	rt := router.New(
		router.WithRoutes(Healthcheck()...),
		router.WithRoutes(Authentication(authenticator)...),
		router.WithRoutes(Analysis(analyzer, cfg.Analysis.MaxTextBytes)...),
		router.WithRoutes(CronJobs(CronJobServices{CronJobTypeHistoryRetention: cronJob})...),
	)

	return &testServer{
		handler: middleware.AuthMiddleware(authenticator, authEnabled)(rt),
		cronJob: cronJob,
	}
}

func (s *testServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()

	out, err := json.Marshal(v)
	require.NoError(t, err)
	return string(out)
}

func TestAnalysisRoutes(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		body           func(t *testing.T) string
		expectedStatus int
		validate       func(t *testing.T, body map[string]any)
	}{
		{
			name:           "Texto ausente",
			method:         http.MethodPost,
			path:           "/v1/analysis",
			body:           func(t *testing.T) string { return `{"text":""}` },
			expectedStatus: http.StatusBadRequest,
			validate: func(t *testing.T, body map[string]any) {
				assert.Equal(t, apiErrors.ErrMissingRequiredData, body["code"])
				assert.Equal(t, map[string]any{"Text": "required"}, body["details"])
			},
		},
		{
			name:           "JSON malformado",
			method:         http.MethodPost,
			path:           "/v1/analysis",
			body:           func(t *testing.T) string { return `{"text":` },
			expectedStatus: http.StatusBadRequest,
			validate: func(t *testing.T, body map[string]any) {
				assert.Equal(t, apiErrors.ErrInvalidRequest, body["code"])
			},
		},
		{
			name:           "Texto só com espaços",
			method:         http.MethodPost,
			path:           "/v1/analysis",
			body:           func(t *testing.T) string { return `{"text":"   \n  "}` },
			expectedStatus: http.StatusUnprocessableEntity,
			validate: func(t *testing.T, body map[string]any) {
				assert.Equal(t, apiErrors.ErrEmptyText, body["code"])
				assert.Equal(t, map[string]any{"field": "text"}, body["details"])
			},
		},
		{
			name:   "Texto acima do limite",
			method: http.MethodPost,
			path:   "/v1/analysis",
			body: func(t *testing.T) string {
				return mustJSON(t, AnalyzeRequest{Text: strings.Repeat("a", 1025)})
			},
			expectedStatus: http.StatusRequestEntityTooLarge,
			validate: func(t *testing.T, body map[string]any) {
				assert.Equal(t, apiErrors.ErrTextTooLarge, body["code"])
			},
		},
		{
			name:   "Análise de perfil",
			method: http.MethodPost,
			path:   "/v1/analysis",
			body: func(t *testing.T) string {
				return mustJSON(t, AnalyzeRequest{Text: profileText})
			},
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "abc123", body["id"])

				record := body["record"].(map[string]any)
				profile := record["profile"].(map[string]any)
				assert.Equal(t, "BoutiqueX", profile["shop_name"])
				assert.Equal(t, float64(120), profile["followers"])
				assert.Len(t, record["items"], 1)
				assert.NotNil(t, body["metrics"])
			},
		},
		{
			name:   "Comparação sem a segunda loja",
			method: http.MethodPost,
			path:   "/v1/analysis/compare",
			body: func(t *testing.T) string {
				return mustJSON(t, map[string]string{"shop1": profileText})
			},
			expectedStatus: http.StatusBadRequest,
			validate: func(t *testing.T, body map[string]any) {
				assert.Equal(t, apiErrors.ErrMissingRequiredData, body["code"])
				assert.Equal(t, map[string]any{"Shop2": "required"}, body["details"])
			},
		},
		{
			name:   "Segunda loja só com espaços",
			method: http.MethodPost,
			path:   "/v1/analysis/compare",
			body: func(t *testing.T) string {
				return mustJSON(t, CompareRequest{Shop1: profileText, Shop2: "   "})
			},
			expectedStatus: http.StatusUnprocessableEntity,
			validate: func(t *testing.T, body map[string]any) {
				assert.Equal(t, apiErrors.ErrEmptyText, body["code"])
				assert.Equal(t, map[string]any{"field": "shop2"}, body["details"])
			},
		},
		{
			name:   "Comparação de lojas",
			method: http.MethodPost,
			path:   "/v1/analysis/compare",
			body: func(t *testing.T) string {
				return mustJSON(t, CompareRequest{Shop1: profileText, Shop2: otherProfileText})
			},
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "abc123", body["id"])
				assert.Equal(t, "abc123-1", body["shop1"].(map[string]any)["id"])
				assert.Equal(t, "abc123-2", body["shop2"].(map[string]any)["id"])
				assert.NotNil(t, body["comparison"])
			},
		},
		{
			name:           "Rota inexistente",
			method:         http.MethodGet,
			path:           "/v1/nada",
			body:           func(t *testing.T) string { return "" },
			expectedStatus: http.StatusNotFound,
			validate: func(t *testing.T, body map[string]any) {
				assert.Equal(t, apiErrors.ErrNotFound, body["code"])
			},
		},
		{
			name:           "Método não suportado",
			method:         http.MethodGet,
			path:           "/v1/analysis",
			body:           func(t *testing.T) string { return "" },
			expectedStatus: http.StatusMethodNotAllowed,
			validate: func(t *testing.T, body map[string]any) {
				assert.Equal(t, apiErrors.ErrMethodNotAllowed, body["code"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, false)

			rec := server.do(tt.method, tt.path, tt.body(t), "")

			assert.Equal(t, tt.expectedStatus, rec.Code)
			tt.validate(t, decodeBody(t, rec))
		})
	}
}

func TestListHistory(t *testing.T) {
	server := newTestServer(t, false)

	rec := server.do(http.MethodGet, "/v1/analysis/history", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(0), body["total"])
	assert.Empty(t, body["analyses"])

	rec = server.do(http.MethodPost, "/v1/analysis", mustJSON(t, AnalyzeRequest{Text: profileText}), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = server.do(http.MethodGet, "/v1/analysis/history", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, float64(1), body["total"])

	analyses := body["analyses"].([]any)
	require.Len(t, analyses, 1)
	summary := analyses[0].(map[string]any)
	assert.Equal(t, "abc123", summary["id"])
	assert.Equal(t, domain.AnalysisTypeProfile, summary["type"])
	assert.Equal(t, "BoutiqueX", summary["shop_name"])
}

func TestCronRoutes(t *testing.T) {
	tests := []struct {
		name              string
		method            string
		path              string
		expectedStatus    int
		expectedTriggered int
		validate          func(t *testing.T, body map[string]any)
	}{
		{
			name:              "Job desconhecido",
			method:            http.MethodPost,
			path:              "/v1/cron/jobs/inexistente/run",
			expectedStatus:    http.StatusNotFound,
			expectedTriggered: 0,
			validate: func(t *testing.T, body map[string]any) {
				assert.Equal(t, apiErrors.ErrUnknownJob, body["code"])
				assert.Equal(t, map[string]any{"type": "inexistente"}, body["details"])
			},
		},
		{
			name:              "Retenção disparada manualmente",
			method:            http.MethodPost,
			path:              "/v1/cron/jobs/history-retention/run",
			expectedStatus:    http.StatusAccepted,
			expectedTriggered: 1,
			validate: func(t *testing.T, body map[string]any) {
				assert.Equal(t, CronJobTypeHistoryRetention, body["type"])
			},
		},
		{
			name:              "Todos os jobs",
			method:            http.MethodPost,
			path:              "/v1/cron/jobs/all/run",
			expectedStatus:    http.StatusAccepted,
			expectedTriggered: 1,
			validate: func(t *testing.T, body map[string]any) {
				assert.Equal(t, CronJobTypeAll, body["type"])
			},
		},
		{
			name:              "Status dos jobs",
			method:            http.MethodGet,
			path:              "/v1/cron/status",
			expectedStatus:    http.StatusOK,
			expectedTriggered: 0,
			validate: func(t *testing.T, body map[string]any) {
				assert.Contains(t, body, CronJobTypeHistoryRetention)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, false)

			rec := server.do(tt.method, tt.path, "", "")

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedTriggered, server.cronJob.triggered)
			tt.validate(t, decodeBody(t, rec))
		})
	}
}

func TestAuthenticatedRoutes(t *testing.T) {
	server := newTestServer(t, true)

	login := func(t *testing.T, email string) string {
		rec := server.do(http.MethodPost, "/v1/login",
			mustJSON(t, LoginRequest{Email: email, Password: "s3nh@forte"}), "")
		require.Equal(t, http.StatusOK, rec.Code)

		token, ok := decodeBody(t, rec)["token"].(string)
		require.True(t, ok)
		return token
	}

	adminToken := login(t, "admin@loja.fr")
	analystToken := login(t, "analista@loja.fr")

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		token          string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Healthcheck é público",
			method:         http.MethodGet,
			path:           "/healthcheck",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Análise sem token",
			method:         http.MethodPost,
			path:           "/v1/analysis",
			body:           `{"text":"x"}`,
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   apiErrors.ErrInvalidToken,
		},
		{
			name:           "Token inválido",
			method:         http.MethodGet,
			path:           "/v1/me",
			token:          "nao.e.jwt",
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   apiErrors.ErrInvalidToken,
		},
		{
			name:           "Analista pode analisar",
			method:         http.MethodPost,
			path:           "/v1/analysis",
			body:           `{"text":"BoutiqueX\n120 Abonnés"}`,
			token:          analystToken,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Analista não dispara cron",
			method:         http.MethodPost,
			path:           "/v1/cron/jobs/history-retention/run",
			token:          analystToken,
			expectedStatus: http.StatusForbidden,
			expectedCode:   apiErrors.ErrInsufficientPrivilege,
		},
		{
			name:           "Administrador consulta status das crons",
			method:         http.MethodGet,
			path:           "/v1/cron/status",
			token:          adminToken,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Senha incorreta",
			method:         http.MethodPost,
			path:           "/v1/login",
			body:           `{"email":"admin@loja.fr","password":"errada"}`,
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   apiErrors.ErrInvalidCredentials,
		},
		{
			name:           "Email inválido no login",
			method:         http.MethodPost,
			path:           "/v1/login",
			body:           `{"email":"admin","password":"x"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apiErrors.ErrMissingRequiredData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := server.do(tt.method, tt.path, tt.body, tt.token)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeBody(t, rec)["code"])
			}
		})
	}

	t.Run("Me retorna o operador do token", func(t *testing.T) {
		rec := server.do(http.MethodGet, "/v1/me", "", analystToken)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "analista@loja.fr", body["email"])
		assert.Equal(t, float64(domain.RoleAnalyst), body["role_id"])
	})
}
