package handler

import (
	"errors"
	"net/http"

	"github.com/vfg2006/shop-analyzer-api/internal/usecases/analyzing"
	"github.com/vfg2006/shop-analyzer-api/pkg/apiErrors"
	"github.com/vfg2006/shop-analyzer-api/pkg/log"
)

// Folga para as chaves e o escape JSON em volta do texto
const bodyOverhead = 64 << 10

type AnalyzeRequest struct {
	Text string `json:"text" validate:"required"`
}

type CompareRequest struct {
	Shop1 string `json:"shop1" validate:"required"`
	Shop2 string `json:"shop2" validate:"required"`
}

type HistoryResponse struct {
	Analyses any `json:"analyses"`
	Total    int `json:"total"`
}

func AnalyzeProfile(service analyzing.Analyzer, maxTextBytes int) http.HandlerFunc {
	maxBody := int64(2*maxTextBytes + bodyOverhead)

	return func(w http.ResponseWriter, r *http.Request) {
		var req AnalyzeRequest
		if !decodeRequest(w, r, maxBody, &req) {
			return
		}

		result, err := service.Analyze(r.Context(), req.Text)
		if err != nil {
			handleAnalysisError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, result)
	}
}

func CompareShops(service analyzing.Analyzer, maxTextBytes int) http.HandlerFunc {
	maxBody := int64(4*maxTextBytes + bodyOverhead)

	return func(w http.ResponseWriter, r *http.Request) {
		var req CompareRequest
		if !decodeRequest(w, r, maxBody, &req) {
			return
		}

		report, err := service.Compare(r.Context(), req.Shop1, req.Shop2)
		if err != nil {
			handleAnalysisError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, report)
	}
}

func ListHistory(service analyzing.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summaries, err := service.History(r.Context())
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao listar histórico")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar histórico de análises", nil)
			return
		}

		writeJSON(w, r, http.StatusOK, HistoryResponse{
			Analyses: summaries,
			Total:    len(summaries),
		})
	}
}

func handleAnalysisError(w http.ResponseWriter, r *http.Request, err error) {
	var analysisErr *analyzing.AnalysisError
	if errors.As(err, &analysisErr) {
		if !analyzing.IsValidationError(err) {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao processar análise")
		}
		var details map[string]any
		if analysisErr.Field != "" {
			details = map[string]any{"field": analysisErr.Field}
		}
		apiErrors.WriteError(w, analysisErr.Code, analysisErr.Error(), details)
		return
	}

	log.ForContext(r.Context()).WithError(err).Error("Erro inesperado na análise")
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno ao processar análise", nil)
}
