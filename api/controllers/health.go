package controllers

import (
	"net/http"

	"github.com/mikekode/creenly-licensing/api/responses"
	"github.com/mikekode/creenly-licensing/pkg/config"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Creenly-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}
