package handler

import (
	"net/http"

	"github.com/vfg2006/shop-analyzer-api/internal/api/handler/router"
	"github.com/vfg2006/shop-analyzer-api/internal/usecases/analyzing"
	"github.com/vfg2006/shop-analyzer-api/internal/usecases/authenticating"
	"github.com/vfg2006/shop-analyzer-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Analysis(service analyzing.Analyzer, maxTextBytes int) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/analysis",
			Method:      http.MethodPost,
			Handler:     AnalyzeProfile(service, maxTextBytes),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/analysis/compare",
			Method:      http.MethodPost,
			Handler:     CompareShops(service, maxTextBytes),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/analysis/history",
			Method:      http.MethodGet,
			Handler:     ListHistory(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/jobs/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
