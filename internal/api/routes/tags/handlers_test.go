package tags

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
	r.Get("/api/tags", HandleListTags)
	r.Get("/api/tags/{id}", HandleGetTag)
	return r
}

func TestHandleListTags(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := database.NewMockQuerier(ctrl)
	mockDB.EXPECT().ListTags(gomock.Any()).Return([]database.Tag{
		{ID: 1, Name: "Breakfast", Slug: "breakfast"},
		{ID: 2, Name: "Lunch", Slug: "lunch"},
	}, nil)

	rec := httptest.NewRecorder()
	newRouter(mockDB).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tags", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	want := `[{"id":1,"name":"Breakfast","slug":"breakfast"},{"id":2,"name":"Lunch","slug":"lunch"}]`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}

func TestHandleGetTag(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := database.NewMockQuerier(ctrl)

	tests := []struct {
		name       string
		path       string
		setup      func()
		wantStatus int
	}{
		{
			name: "found",
			path: "/api/tags/1",
			setup: func() {
				mockDB.EXPECT().GetTag(gomock.Any(), int64(1)).Return(database.Tag{ID: 1, Name: "Lunch", Slug: "lunch"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "missing",
			path: "/api/tags/9",
			setup: func() {
				mockDB.EXPECT().GetTag(gomock.Any(), int64(9)).Return(database.Tag{}, pgx.ErrNoRows)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "non numeric id",
			path:       "/api/tags/abc",
			setup:      func() {},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "database error",
			path: "/api/tags/2",
			setup: func() {
				mockDB.EXPECT().GetTag(gomock.Any(), int64(2)).Return(database.Tag{}, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			rec := httptest.NewRecorder()
			newRouter(mockDB).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
