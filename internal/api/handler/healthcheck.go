package handler

import (
	"net/http"
	"time"
)

type HealthcheckResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

func HealthcheckHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, HealthcheckResponse{
			Status: "ok",
			Time:   time.Now().UTC(),
		})
	})
}
