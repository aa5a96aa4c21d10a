package recipes

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/metrics"
	"github.com/matt-dz/foodgram/internal/shopping"
)

const (
	formatPDF  = "pdf"
	formatText = "txt"
)

var contentTypes = map[string]string{
	formatPDF:  "application/pdf",
	formatText: "text/plain; charset=utf-8",
}

// HandleDownloadShoppingCart godoc
//
//	@Summary		Download the shopping list.
//	@Description	Sums the ingredients of every recipe in the cart by name and
//	@Description	returns the list as a PDF (default) or plain text attachment.
//	@Tags			Recipes
//	@Produce		application/pdf
//	@Produce		plain
//	@Param			format	query		string	false	"pdf or txt"	Enums(pdf, txt)
//	@Success		200		{file}		file
//	@Failure		400		{object}	apiError.Error	"Unknown format"
//	@Failure		401		{object}	apiError.Error	"Unauthorized"
//	@Failure		409		{object}	apiError.Error	"Conflicting measurement units"
//	@Failure		500		{object}	apiError.Error	"Internal server error"
//	@Security		TokenAuth
//	@Router			/api/recipes/download_shopping_cart [get]
func HandleDownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	userID := token.UserIDFromCtx(ctx)

	format := r.URL.Query().Get("format")
	if format == "" {
		format = formatPDF
	}
	contentType, ok := contentTypes[format]
	if !ok {
		env.Logger.ErrorContext(ctx, "unknown shopping list format", slog.String("format", format))
		_ = apiError.EncodeError(w, apiError.BadRequest, "format should be pdf or txt", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "aggregating shopping list")
	aggregator := shopping.NewAggregator(shopping.DatabaseSource{Querier: env.Database})
	lines, err := aggregator.Aggregate(ctx, userID)
	var conflict *shopping.UnitConflictError
	if errors.As(err, &conflict) {
		env.Logger.ErrorContext(ctx, "conflicting measurement units", slog.Any("error", err))
		metrics.RecordShoppingList(format, 0, err)
		_ = apiError.EncodeError(w, apiError.UnitConflict, conflict.Error(), requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to aggregate shopping list", slog.Any("error", err))
		metrics.RecordShoppingList(format, 0, err)
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "rendering shopping list", slog.Int("lines", len(lines)))
	title := env.Config.ShoppingList.Title
	var buf bytes.Buffer
	switch format {
	case formatText:
		err = shopping.RenderText(&buf, title, lines)
	default:
		err = shopping.RenderPDF(&buf, title, lines, shopping.PDFOptions{FontPath: env.Config.ShoppingList.FontPath})
	}
	metrics.RecordShoppingList(format, len(lines), err)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to render shopping list", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="shopping_list.`+format+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
