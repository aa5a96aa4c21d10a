package admin

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"go.uber.org/mock/gomock"

	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
)

func newRouter(q database.Querier) http.Handler {
	e := env.New(nil, &database.Database{Querier: q}, nil, nil)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(env.WithCtx(req.Context(), e)))
		})
	})
	r.Post("/api/admin/tags", HandleCreateTag)
	r.Post("/api/admin/ingredients", HandleCreateIngredient)
	return r
}

func TestHandleCreateTag(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(m *database.MockQuerier)
		wantStatus int
		wantBody   string
	}{
		{
			name: "created",
			body: `{"name":"Breakfast","slug":"breakfast"}`,
			setup: func(m *database.MockQuerier) {
				m.EXPECT().CreateTag(gomock.Any(), database.CreateTagParams{Name: "Breakfast", Slug: "breakfast"}).
					Return(int64(3), nil)
			},
			wantStatus: http.StatusCreated,
			wantBody:   `{"id":3,"name":"Breakfast","slug":"breakfast"}`,
		},
		{
			name:       "invalid slug",
			body:       `{"name":"Breakfast","slug":"break fast"}`,
			setup:      func(m *database.MockQuerier) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate slug",
			body: `{"name":"Breakfast","slug":"breakfast"}`,
			setup: func(m *database.MockQuerier) {
				m.EXPECT().CreateTag(gomock.Any(), gomock.Any()).Return(int64(0), pgx.ErrNoRows)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "database error",
			body: `{"name":"Breakfast","slug":"breakfast"}`,
			setup: func(m *database.MockQuerier) {
				m.EXPECT().CreateTag(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockDB := database.NewMockQuerier(ctrl)
			tt.setup(mockDB)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/admin/tags", strings.NewReader(tt.body))
			newRouter(mockDB).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantBody != "" && strings.TrimSpace(rec.Body.String()) != tt.wantBody {
				t.Errorf("body = %s, want %s", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestHandleCreateIngredient(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := database.NewMockQuerier(ctrl)
	gomock.InOrder(
		mockDB.EXPECT().CreateIngredient(gomock.Any(), database.CreateIngredientParams{Name: "Salt", MeasurementUnit: "g"}).
			Return(int64(9), nil),
		mockDB.EXPECT().CreateIngredient(gomock.Any(), gomock.Any()).Return(int64(0), pgx.ErrNoRows),
	)

	router := newRouter(mockDB)
	for _, want := range []int{http.StatusCreated, http.StatusConflict} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/admin/ingredients",
			strings.NewReader(`{"name":"Salt","measurement_unit":"g"}`))
		router.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("status = %d, want %d", rec.Code, want)
		}
	}
}
