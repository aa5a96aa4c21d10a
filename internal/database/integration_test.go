//go:build integration

package database_test

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/matt-dz/foodgram/internal/argon2id"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/filestore"
	"github.com/matt-dz/foodgram/internal/importer"
	"github.com/matt-dz/foodgram/internal/shopping"
)

func skipIfNoDocker(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// startPostgres runs a throwaway Postgres container and returns a migrated
// database.
func startPostgres(t *testing.T) *database.Database {
	t.Helper()
	skipIfNoDocker(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "foodgram",
				"POSTGRES_PASSWORD": "foodgram",
				"POSTGRES_DB":       "foodgram",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting postgres: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatal(err)
	}

	url := fmt.Sprintf("postgres://foodgram:foodgram@%s:%s/foodgram", host, port.Port())
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connecting: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.Migrate(ctx, pool); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return database.NewDatabase(pool)
}

func mustID(t *testing.T, id int64, err error) int64 {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestQueries(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	alice := mustID(t, db.CreateUser(ctx, database.CreateUserParams{
		Email: "alice@example.com", Username: "alice", FirstName: "Alice", LastName: "A",
		PasswordHash: "x", Role: database.RoleUser,
	}))
	bob := mustID(t, db.CreateUser(ctx, database.CreateUserParams{
		Email: "bob@example.com", Username: "bob", FirstName: "Bob", LastName: "B",
		PasswordHash: "x", Role: database.RoleUser,
	}))

	_, err := db.CreateUser(ctx, database.CreateUserParams{
		Email: "alice@example.com", Username: "alice2", PasswordHash: "x", Role: database.RoleUser,
	})
	if got := database.UniqueViolationConstraint(err); got != "users_email_key" {
		t.Errorf("UniqueViolationConstraint() = %q, want users_email_key", got)
	}

	lunch := mustID(t, db.CreateTag(ctx, database.CreateTagParams{Name: "Lunch", Slug: "lunch"}))
	if _, err := db.CreateTag(ctx, database.CreateTagParams{Name: "Lunch", Slug: "lunch"}); !errors.Is(err, pgx.ErrNoRows) {
		t.Errorf("duplicate CreateTag() error = %v, want ErrNoRows", err)
	}
	salt := mustID(t, db.CreateIngredient(ctx, database.CreateIngredientParams{Name: "Salt", MeasurementUnit: "g"}))
	flour := mustID(t, db.CreateIngredient(ctx, database.CreateIngredientParams{Name: "Flour", MeasurementUnit: "g"}))

	newRecipe := func(name string, amounts map[int64]int32) int64 {
		var id int64
		err := db.InTx(ctx, func(q database.Querier) error {
			var err error
			id, err = q.CreateRecipe(ctx, database.CreateRecipeParams{
				AuthorID: alice, Name: name, Text: "text", ImageKey: "recipes/x.png", CookingTime: 5,
			})
			if err != nil {
				return err
			}
			pos := int32(0)
			for ingredient, amount := range amounts {
				if err := q.AddRecipeIngredient(ctx, database.AddRecipeIngredientParams{
					RecipeID: id, IngredientID: ingredient, Amount: amount, Position: pos,
				}); err != nil {
					return err
				}
				pos++
			}
			return q.AddRecipeTag(ctx, database.AddRecipeTagParams{RecipeID: id, TagID: lunch})
		})
		if err != nil {
			t.Fatalf("creating recipe: %v", err)
		}
		return id
	}
	soup := newRecipe("Soup", map[int64]int32{salt: 5})
	bread := newRecipe("Bread", map[int64]int32{salt: 3, flour: 200})

	t.Run("failed transaction rolls back", func(t *testing.T) {
		sentinel := errors.New("abort")
		err := db.InTx(ctx, func(q database.Querier) error {
			if _, err := q.CreateRecipe(ctx, database.CreateRecipeParams{
				AuthorID: alice, Name: "Ghost", Text: "t", ImageKey: "k", CookingTime: 1,
			}); err != nil {
				return err
			}
			return sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("InTx() error = %v", err)
		}
		count, err := db.CountRecipes(ctx, database.RecipeFilterParams{})
		if err != nil || count != 2 {
			t.Errorf("CountRecipes() = %d, %v; want 2", count, err)
		}
	})

	t.Run("favorites are unique", func(t *testing.T) {
		params := database.UserRecipeParams{UserID: bob, RecipeID: soup}
		if n, err := db.AddFavorite(ctx, params); err != nil || n != 1 {
			t.Fatalf("AddFavorite() = %d, %v", n, err)
		}
		if n, err := db.AddFavorite(ctx, params); err != nil || n != 0 {
			t.Errorf("second AddFavorite() = %d, %v; want 0", n, err)
		}
		rows, err := db.ListRecipes(ctx, database.ListRecipesParams{
			RecipeFilterParams: database.RecipeFilterParams{ViewerID: bob, OnlyFavorited: true},
			Limit:              10,
		})
		if err != nil || len(rows) != 1 || rows[0].ID != soup || !rows[0].IsFavorited {
			t.Errorf("favorited recipes = %+v, %v", rows, err)
		}
	})

	t.Run("shopping list from cart", func(t *testing.T) {
		for _, id := range []int64{soup, bread} {
			if _, err := db.AddToCart(ctx, database.UserRecipeParams{UserID: bob, RecipeID: id}); err != nil {
				t.Fatal(err)
			}
		}
		lines, err := shopping.NewAggregator(shopping.DatabaseSource{Querier: db}).Aggregate(ctx, bob)
		if err != nil {
			t.Fatalf("Aggregate() error = %v", err)
		}
		want := []shopping.Line{{Name: "Flour", Amount: 200, Unit: "g"}, {Name: "Salt", Amount: 8, Unit: "g"}}
		if len(lines) != len(want) || lines[0] != want[0] || lines[1] != want[1] {
			t.Errorf("lines = %+v, want %+v", lines, want)
		}
	})

	t.Run("ingredient prefix search", func(t *testing.T) {
		got, err := db.ListIngredients(ctx, "SA")
		if err != nil || len(got) != 1 || got[0].ID != salt {
			t.Errorf("ListIngredients(SA) = %+v, %v", got, err)
		}
	})

	t.Run("deleting a recipe", func(t *testing.T) {
		if err := db.DeleteRecipe(ctx, soup); err != nil {
			t.Fatal(err)
		}
		exists, err := db.RecipeExists(ctx, soup)
		if err != nil || exists {
			t.Errorf("RecipeExists() = %v, %v", exists, err)
		}
		ids, err := db.CartRecipeIDs(ctx, bob)
		if err != nil || len(ids) != 1 || ids[0] != bread {
			t.Errorf("CartRecipeIDs() = %v, %v", ids, err)
		}
	})
}

// A 1x1 transparent PNG.
const pixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func TestImportedCartAggregates(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	dir := t.TempDir()
	png, err := base64.StdEncoding.DecodeString(pixelPNG)
	if err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"users.csv": "email,username,first_name,last_name,password\n" +
			"alice@example.com,alice,Alice,A,Str0ng-Passw0rd\n" +
			"bob@example.com,bob,Bob,B,Str0ng-Passw0rd\n",
		"subscriptions.csv": "subscriber,subscriptions\n2,1\n",
		"tags.csv":          "name,slug\nBreakfast,breakfast\n",
		"ingredients.csv":   "name,measurement_unit\nFlour,g\nSalt,g\n",
		"recipes.csv": "author,name,text,cooking_time,ingredients,tags,image\n" +
			"1,Bread,Knead,60,\"1:200,2:5\",1,images/recipe_1.png\n" +
			"1,Brine,Stir,5,2:3,1,images/recipe_1.png\n",
		"favorites.csv":       "user,recipes\n2,1\n",
		"shopping_cart.csv":   "user,recipes\n2,\"1,2\"\n",
		"images/recipe_1.png": string(png),
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	store := filestore.NewLocal(t.TempDir(), "/media", "http://localhost")
	im := importer.New(db, nil,
		importer.WithHashParams(argon2id.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}),
		importer.WithImages(store, os.DirFS(dir)),
	)

	results, err := im.Dir(ctx, dir, importer.Kinds...)
	if err != nil {
		t.Fatalf("Dir() error = %v", err)
	}
	wantCreated := []int{2, 1, 1, 2, 2, 1, 2}
	for i, res := range results {
		if res.Created != wantCreated[i] || len(res.Skipped) != 0 {
			t.Errorf("%s: %+v, want %d created", res.Kind, res, wantCreated[i])
		}
	}

	lines, err := shopping.NewAggregator(shopping.DatabaseSource{Querier: db}).Aggregate(ctx, 2)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	want := []shopping.Line{{Name: "Flour", Amount: 200, Unit: "g"}, {Name: "Salt", Amount: 8, Unit: "g"}}
	if !slices.Equal(lines, want) {
		t.Errorf("Aggregate() = %+v, want %+v", lines, want)
	}

	again, err := im.Dir(ctx, dir, importer.Kinds...)
	if err != nil {
		t.Fatalf("second Dir() error = %v", err)
	}
	for _, res := range again {
		if res.Created != 0 || len(res.Skipped) == 0 {
			t.Errorf("re-import %s: %+v, want only skipped rows", res.Kind, res)
		}
	}
}
