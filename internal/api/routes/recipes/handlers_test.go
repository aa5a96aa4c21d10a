package recipes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"go.uber.org/mock/gomock"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/json"
	"github.com/matt-dz/foodgram/internal/role"
	"github.com/matt-dz/foodgram/internal/shortlink"
)

const pixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type memStore struct {
	objects map[string][]byte
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (m *memStore) Put(_ context.Context, key string, data []byte, _ string) error {
	m.objects[key] = data
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memStore) URL(key string) string { return "/media/" + key }

var me = &token.User{ID: 1, Role: role.RoleUser}

func newRouter(q database.Querier, fs *memStore, user *token.User) http.Handler {
	e := env.New(nil, &database.Database{Querier: q}, fs, &config.Config{HostOrigin: "https://foodgram.test"})
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := env.WithCtx(req.Context(), e)
			if user != nil {
				ctx = token.UserWithCtx(ctx, *user)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/s/{token}", HandleShortLink)
	r.Route("/api/recipes", func(r chi.Router) {
		r.Get("/", HandleListRecipes)
		r.Post("/", HandleCreateRecipe)
		r.Get("/download_shopping_cart", HandleDownloadShoppingCart)
		r.Get("/{id}", HandleGetRecipe)
		r.Patch("/{id}", HandleUpdateRecipe)
		r.Delete("/{id}", HandleDeleteRecipe)
		r.Get("/{id}/get-link", HandleGetLink)
		r.Post("/{id}/favorite", HandleAddFavorite)
		r.Delete("/{id}/favorite", HandleRemoveFavorite)
		r.Post("/{id}/shopping_cart", HandleAddToCart)
		r.Delete("/{id}/shopping_cart", HandleRemoveFromCart)
	})
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) apiError.ErrorCode {
	t.Helper()
	var body apiError.Error
	if err := json.DecodeJSON(rec.Body, &body); err != nil {
		t.Fatalf("decoding error body: %v (%s)", err, rec.Body.String())
	}
	return body.Code
}

func expectLoad(m *database.MockQuerier) {
	m.EXPECT().ListRecipeTags(gomock.Any(), gomock.Any()).Return(nil, nil)
	m.EXPECT().ListRecipeIngredients(gomock.Any(), gomock.Any()).Return(nil, nil)
}

func TestHandleListRecipes(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		user       *token.User
		wantFilter database.RecipeFilterParams
	}{
		{
			name:       "anonymous ignores favorites filter",
			path:       "/api/recipes/?is_favorited=1&tags=lunch&tags=dinner",
			wantFilter: database.RecipeFilterParams{TagSlugs: []string{"lunch", "dinner"}},
		},
		{
			name:       "authenticated favorites and cart",
			path:       "/api/recipes/?is_favorited=1&is_in_shopping_cart=1",
			user:       me,
			wantFilter: database.RecipeFilterParams{ViewerID: 1, OnlyFavorited: true, OnlyInCart: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockDB := database.NewMockQuerier(ctrl)
			mockDB.EXPECT().CountRecipes(gomock.Any(), tt.wantFilter).Return(int64(1), nil)
			mockDB.EXPECT().ListRecipes(gomock.Any(), database.ListRecipesParams{
				RecipeFilterParams: tt.wantFilter, Limit: 6, Offset: 0,
			}).Return([]database.RecipeRow{{ID: 4, Name: "Soup", ImageKey: "recipes/s.png"}}, nil)
			expectLoad(mockDB)

			rec := do(newRouter(mockDB, newMemStore(), tt.user), http.MethodGet, tt.path, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), `"image":"/media/recipes/s.png"`) {
				t.Errorf("body = %s", rec.Body.String())
			}
		})
	}
}

func TestHandleListRecipesInvalidAuthor(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := do(newRouter(database.NewMockQuerier(ctrl), newMemStore(), nil), http.MethodGet, "/api/recipes/?author=x", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleGetRecipeNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := database.NewMockQuerier(ctrl)
	mockDB.EXPECT().GetRecipe(gomock.Any(), database.GetRecipeParams{ID: 5}).Return(database.RecipeRow{}, pgx.ErrNoRows)

	rec := do(newRouter(mockDB, newMemStore(), nil), http.MethodGet, "/api/recipes/5", "")
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != apiError.RecipeNotFound {
		t.Errorf("status = %d, want 404 recipe_not_found", rec.Code)
	}
}

func createBody(image string) string {
	return `{"ingredients":[{"id":1,"amount":5},{"id":2,"amount":3}],"tags":[1],` +
		`"image":"` + image + `","name":"Soup","text":"Boil.","cooking_time":10}`
}

func TestHandleCreateRecipe(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := database.NewMockQuerier(ctrl)
	fs := newMemStore()

	mockDB.EXPECT().CountIngredientsByIDs(gomock.Any(), []int64{1, 2}).Return(int64(2), nil)
	mockDB.EXPECT().CountTagsByIDs(gomock.Any(), []int64{1}).Return(int64(1), nil)
	mockDB.EXPECT().CreateRecipe(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p database.CreateRecipeParams) (int64, error) {
			if p.AuthorID != 1 || p.Name != "Soup" || !strings.HasPrefix(p.ImageKey, "recipes/") {
				t.Errorf("unexpected params %+v", p)
			}
			return 11, nil
		})
	mockDB.EXPECT().AddRecipeIngredient(gomock.Any(), database.AddRecipeIngredientParams{
		RecipeID: 11, IngredientID: 1, Amount: 5, Position: 0,
	}).Return(nil)
	mockDB.EXPECT().AddRecipeIngredient(gomock.Any(), database.AddRecipeIngredientParams{
		RecipeID: 11, IngredientID: 2, Amount: 3, Position: 1,
	}).Return(nil)
	mockDB.EXPECT().AddRecipeTag(gomock.Any(), database.AddRecipeTagParams{RecipeID: 11, TagID: 1}).Return(nil)
	mockDB.EXPECT().GetRecipe(gomock.Any(), database.GetRecipeParams{ViewerID: 1, ID: 11}).
		Return(database.RecipeRow{ID: 11, AuthorID: 1, Name: "Soup"}, nil)
	expectLoad(mockDB)

	rec := do(newRouter(mockDB, fs, me), http.MethodPost, "/api/recipes/", createBody("data:image/png;base64,"+pixelPNG))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", rec.Code, rec.Body.String())
	}
	if len(fs.objects) != 1 {
		t.Errorf("stored images = %d, want 1", len(fs.objects))
	}
}

func TestHandleCreateRecipeValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		setup func(m *database.MockQuerier)
		field string
	}{
		{
			name:  "duplicate ingredients",
			body:  `{"ingredients":[{"id":1,"amount":1},{"id":1,"amount":2}],"tags":[1],"image":"x","name":"a","text":"b","cooking_time":1}`,
			setup: func(m *database.MockQuerier) {},
			field: "ingredients",
		},
		{
			name:  "zero amount",
			body:  `{"ingredients":[{"id":1,"amount":0}],"tags":[1],"image":"x","name":"a","text":"b","cooking_time":1}`,
			setup: func(m *database.MockQuerier) {},
			field: "ingredients[0].amount",
		},
		{
			name:  "no tags",
			body:  `{"ingredients":[{"id":1,"amount":1}],"tags":[],"image":"x","name":"a","text":"b","cooking_time":1}`,
			setup: func(m *database.MockQuerier) {},
			field: "tags",
		},
		{
			name:  "zero cooking time",
			body:  `{"ingredients":[{"id":1,"amount":1}],"tags":[1],"image":"x","name":"a","text":"b","cooking_time":0}`,
			setup: func(m *database.MockQuerier) {},
			field: "cooking_time",
		},
		{
			name: "unknown ingredient",
			body: createBody("data:image/png;base64," + pixelPNG),
			setup: func(m *database.MockQuerier) {
				m.EXPECT().CountIngredientsByIDs(gomock.Any(), gomock.Any()).Return(int64(1), nil)
				m.EXPECT().CountTagsByIDs(gomock.Any(), gomock.Any()).Return(int64(1), nil)
			},
			field: "ingredients",
		},
		{
			name: "bad image",
			body: createBody("data:text/plain;base64,aGVsbG8="),
			setup: func(m *database.MockQuerier) {
				m.EXPECT().CountIngredientsByIDs(gomock.Any(), gomock.Any()).Return(int64(2), nil)
				m.EXPECT().CountTagsByIDs(gomock.Any(), gomock.Any()).Return(int64(1), nil)
			},
			field: "image",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockDB := database.NewMockQuerier(ctrl)
			tt.setup(mockDB)

			rec := do(newRouter(mockDB, newMemStore(), me), http.MethodPost, "/api/recipes/", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
			}
			var body apiError.Error
			if err := json.DecodeJSON(rec.Body, &body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if _, ok := body.Fields[tt.field]; !ok {
				t.Errorf("fields = %v, want %q", body.Fields, tt.field)
			}
		})
	}
}

func TestHandleUpdateRecipeNotOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := database.NewMockQuerier(ctrl)
	mockDB.EXPECT().GetRecipeAuthor(gomock.Any(), int64(3)).Return(int64(2), nil)

	rec := do(newRouter(mockDB, newMemStore(), me), http.MethodPatch, "/api/recipes/3", createBody(""))
	if rec.Code != http.StatusForbidden || errorCode(t, rec) != apiError.RecipeNotOwned {
		t.Errorf("status = %d, want 403 recipe_not_owned", rec.Code)
	}
}

func TestHandleUpdateRecipeKeepsImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := database.NewMockQuerier(ctrl)
	fs := newMemStore()
	fs.objects["recipes/old.png"] = []byte("x")

	mockDB.EXPECT().GetRecipeAuthor(gomock.Any(), int64(3)).Return(int64(1), nil)
	mockDB.EXPECT().CountIngredientsByIDs(gomock.Any(), gomock.Any()).Return(int64(2), nil)
	mockDB.EXPECT().CountTagsByIDs(gomock.Any(), gomock.Any()).Return(int64(1), nil)
	mockDB.EXPECT().GetShortRecipe(gomock.Any(), int64(3)).Return(database.ShortRecipe{ID: 3, ImageKey: "recipes/old.png"}, nil)
	mockDB.EXPECT().UpdateRecipe(gomock.Any(), database.UpdateRecipeParams{
		ID: 3, Name: "Soup", Text: "Boil.", ImageKey: "recipes/old.png", CookingTime: 10,
	}).Return(nil)
	mockDB.EXPECT().DeleteRecipeIngredients(gomock.Any(), int64(3)).Return(nil)
	mockDB.EXPECT().DeleteRecipeTags(gomock.Any(), int64(3)).Return(nil)
	mockDB.EXPECT().AddRecipeIngredient(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	mockDB.EXPECT().AddRecipeTag(gomock.Any(), gomock.Any()).Return(nil)
	mockDB.EXPECT().GetRecipe(gomock.Any(), database.GetRecipeParams{ViewerID: 1, ID: 3}).
		Return(database.RecipeRow{ID: 3, AuthorID: 1, ImageKey: "recipes/old.png"}, nil)
	expectLoad(mockDB)

	rec := do(newRouter(mockDB, fs, me), http.MethodPatch, "/api/recipes/3", createBody(""))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if _, ok := fs.objects["recipes/old.png"]; !ok {
		t.Error("existing image deleted")
	}
}

func TestHandleDeleteRecipe(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := database.NewMockQuerier(ctrl)
	fs := newMemStore()
	fs.objects["recipes/a.png"] = []byte("x")

	mockDB.EXPECT().GetRecipeAuthor(gomock.Any(), int64(3)).Return(int64(1), nil)
	mockDB.EXPECT().GetShortRecipe(gomock.Any(), int64(3)).Return(database.ShortRecipe{ID: 3, ImageKey: "recipes/a.png"}, nil)
	mockDB.EXPECT().DeleteRecipe(gomock.Any(), int64(3)).Return(nil)

	rec := do(newRouter(mockDB, fs, me), http.MethodDelete, "/api/recipes/3", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if len(fs.objects) != 0 {
		t.Error("image not deleted")
	}
}

func TestFavoritesAndCart(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		setup      func(m *database.MockQuerier)
		wantStatus int
		wantCode   apiError.ErrorCode
	}{
		{
			name:   "add favorite",
			method: http.MethodPost,
			path:   "/api/recipes/4/favorite",
			setup: func(m *database.MockQuerier) {
				m.EXPECT().GetShortRecipe(gomock.Any(), int64(4)).Return(database.ShortRecipe{ID: 4, Name: "Soup"}, nil)
				m.EXPECT().AddFavorite(gomock.Any(), database.UserRecipeParams{UserID: 1, RecipeID: 4}).Return(int64(1), nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:   "duplicate favorite",
			method: http.MethodPost,
			path:   "/api/recipes/4/favorite",
			setup: func(m *database.MockQuerier) {
				m.EXPECT().GetShortRecipe(gomock.Any(), int64(4)).Return(database.ShortRecipe{ID: 4}, nil)
				m.EXPECT().AddFavorite(gomock.Any(), gomock.Any()).Return(int64(0), nil)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiError.AlreadyFavorited,
		},
		{
			name:   "favorite unknown recipe",
			method: http.MethodPost,
			path:   "/api/recipes/9/favorite",
			setup: func(m *database.MockQuerier) {
				m.EXPECT().GetShortRecipe(gomock.Any(), int64(9)).Return(database.ShortRecipe{}, pgx.ErrNoRows)
			},
			wantStatus: http.StatusNotFound,
			wantCode:   apiError.RecipeNotFound,
		},
		{
			name:   "remove from cart",
			method: http.MethodDelete,
			path:   "/api/recipes/4/shopping_cart",
			setup: func(m *database.MockQuerier) {
				m.EXPECT().RecipeExists(gomock.Any(), int64(4)).Return(true, nil)
				m.EXPECT().RemoveFromCart(gomock.Any(), database.UserRecipeParams{UserID: 1, RecipeID: 4}).Return(int64(1), nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "remove absent from cart",
			method: http.MethodDelete,
			path:   "/api/recipes/4/shopping_cart",
			setup: func(m *database.MockQuerier) {
				m.EXPECT().RecipeExists(gomock.Any(), int64(4)).Return(true, nil)
				m.EXPECT().RemoveFromCart(gomock.Any(), gomock.Any()).Return(int64(0), nil)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiError.NotInCart,
		},
		{
			name:   "add to cart twice",
			method: http.MethodPost,
			path:   "/api/recipes/4/shopping_cart",
			setup: func(m *database.MockQuerier) {
				m.EXPECT().GetShortRecipe(gomock.Any(), int64(4)).Return(database.ShortRecipe{ID: 4}, nil)
				m.EXPECT().AddToCart(gomock.Any(), gomock.Any()).Return(int64(0), nil)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiError.AlreadyInCart,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockDB := database.NewMockQuerier(ctrl)
			tt.setup(mockDB)

			rec := do(newRouter(mockDB, newMemStore(), me), tt.method, tt.path, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				if code := errorCode(t, rec); code != tt.wantCode {
					t.Errorf("code = %q, want %q", code, tt.wantCode)
				}
			}
		})
	}
}

func expectCart(m *database.MockQuerier, rows []database.RecipeIngredientRow) {
	m.EXPECT().CartRecipeIDs(gomock.Any(), int64(1)).Return([]int64{1, 2}, nil)
	m.EXPECT().ListRecipeIngredients(gomock.Any(), []int64{1, 2}).Return(rows, nil)
}

func TestHandleDownloadShoppingCart(t *testing.T) {
	rows := []database.RecipeIngredientRow{
		{RecipeID: 1, Name: "Salt", MeasurementUnit: "g", Amount: 5},
		{RecipeID: 2, Name: "Salt", MeasurementUnit: "g", Amount: 3},
		{RecipeID: 2, Name: "Flour", MeasurementUnit: "g", Amount: 200},
	}

	t.Run("text", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := database.NewMockQuerier(ctrl)
		expectCart(mockDB, rows)

		rec := do(newRouter(mockDB, newMemStore(), me), http.MethodGet, "/api/recipes/download_shopping_cart?format=txt", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
		}
		want := "Shopping list:\nFlour — 200 g\nSalt — 8 g\n"
		if rec.Body.String() != want {
			t.Errorf("body = %q, want %q", rec.Body.String(), want)
		}
		if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="shopping_list.txt"` {
			t.Errorf("Content-Disposition = %q", got)
		}
	})

	t.Run("pdf by default", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := database.NewMockQuerier(ctrl)
		expectCart(mockDB, rows)

		rec := do(newRouter(mockDB, newMemStore(), me), http.MethodGet, "/api/recipes/download_shopping_cart", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
		}
		if !strings.HasPrefix(rec.Body.String(), "%PDF-") || rec.Header().Get("Content-Type") != "application/pdf" {
			t.Errorf("expected a pdf document, got %q", rec.Header().Get("Content-Type"))
		}
	})

	t.Run("unit conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := database.NewMockQuerier(ctrl)
		expectCart(mockDB, []database.RecipeIngredientRow{
			{RecipeID: 1, Name: "Milk", MeasurementUnit: "ml", Amount: 100},
			{RecipeID: 2, Name: "Milk", MeasurementUnit: "cup", Amount: 1},
		})

		rec := do(newRouter(mockDB, newMemStore(), me), http.MethodGet, "/api/recipes/download_shopping_cart?format=txt", "")
		if rec.Code != http.StatusConflict || errorCode(t, rec) != apiError.UnitConflict {
			t.Errorf("status = %d, want 409 unit_conflict", rec.Code)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		rec := do(newRouter(database.NewMockQuerier(ctrl), newMemStore(), me), http.MethodGet,
			"/api/recipes/download_shopping_cart?format=docx", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandleGetLink(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := database.NewMockQuerier(ctrl)
	mockDB.EXPECT().RecipeExists(gomock.Any(), int64(64)).Return(true, nil)

	rec := do(newRouter(mockDB, newMemStore(), nil), http.MethodGet, "/api/recipes/64/get-link", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if want := `{"short-link":"https://foodgram.test/s/10"}`; strings.TrimSpace(rec.Body.String()) != want {
		t.Errorf("body = %s, want %s", rec.Body.String(), want)
	}
}

func TestHandleShortLink(t *testing.T) {
	tests := []struct {
		name         string
		token        string
		setup        func(m *database.MockQuerier)
		wantStatus   int
		wantLocation string
		wantCode     apiError.ErrorCode
	}{
		{
			name:  "redirect",
			token: shortlink.Encode(4095),
			setup: func(m *database.MockQuerier) {
				m.EXPECT().RecipeExists(gomock.Any(), int64(4095)).Return(true, nil)
			},
			wantStatus:   http.StatusFound,
			wantLocation: "/recipes/4095/",
		},
		{
			name:       "malformed",
			token:      "!!!",
			setup:      func(m *database.MockQuerier) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiError.InvalidShortLink,
		},
		{
			name:  "missing recipe",
			token: shortlink.Encode(77),
			setup: func(m *database.MockQuerier) {
				m.EXPECT().RecipeExists(gomock.Any(), int64(77)).Return(false, nil)
			},
			wantStatus: http.StatusNotFound,
			wantCode:   apiError.RecipeNotFound,
		},
		{
			name:       "id beyond int64",
			token:      shortlink.Encode(1 << 63),
			setup:      func(m *database.MockQuerier) {},
			wantStatus: http.StatusNotFound,
			wantCode:   apiError.RecipeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockDB := database.NewMockQuerier(ctrl)
			tt.setup(mockDB)

			rec := do(newRouter(mockDB, newMemStore(), nil), http.MethodGet, "/s/"+tt.token, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantLocation != "" && rec.Header().Get("Location") != tt.wantLocation {
				t.Errorf("Location = %q, want %q", rec.Header().Get("Location"), tt.wantLocation)
			}
			if tt.wantCode != "" {
				if code := errorCode(t, rec); code != tt.wantCode {
					t.Errorf("code = %q, want %q", code, tt.wantCode)
				}
			}
		})
	}
}
