// Package ping contains handlers for pinging the server
package ping

import (
	"log/slog"
	"net/http"

	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/json"
)

type PingResponse struct {
	Status string `json:"status"`
}

// HandlePing godoc
//
//	@Summary	Ping endpoint.
//	@Tags		Ping
//	@Produce	json
//
//	@Success	200	{object}	PingResponse
//	@Router		/api/ping [GET]
func HandlePing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := json.EncodeJSON(w, http.StatusOK, PingResponse{Status: "ok"}); err != nil {
		env.EnvFromCtx(ctx).Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
