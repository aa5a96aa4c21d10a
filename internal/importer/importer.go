// Package importer loads users, subscriptions, tags, ingredients, recipes,
// favorites and shopping carts from CSV files.
//
// Imports are idempotent: rows that already exist are skipped and reported
// instead of failing the import. Rows that reference other records
// (subscriptions, recipes, favorites, carts) use database ids, so kinds must be
// imported in the order of Kinds.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/matt-dz/foodgram/internal/argon2id"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/filestore"
	"github.com/matt-dz/foodgram/internal/form"
	"github.com/matt-dz/foodgram/internal/log"
	"github.com/matt-dz/foodgram/internal/role"
)

type Kind string

const (
	KindUsers         Kind = "users"
	KindSubscriptions Kind = "subscriptions"
	KindTags          Kind = "tags"
	KindIngredients   Kind = "ingredients"
	KindRecipes       Kind = "recipes"
	KindFavorites     Kind = "favorites"
	KindShoppingCart  Kind = "shopping_cart"
)

// Kinds lists every importable kind in dependency order.
var Kinds = []Kind{
	KindUsers,
	KindSubscriptions,
	KindTags,
	KindIngredients,
	KindRecipes,
	KindFavorites,
	KindShoppingCart,
}

// columns are the required CSV columns per kind. Id lists are comma
// separated; recipe ingredients are "<ingredient id>:<amount>" pairs.
var columns = map[Kind][]string{
	KindUsers:         {"email", "username", "first_name", "last_name", "password"},
	KindSubscriptions: {"subscriber", "subscriptions"},
	KindTags:          {"name", "slug"},
	KindIngredients:   {"name", "measurement_unit"},
	KindRecipes:       {"author", "name", "text", "cooking_time", "ingredients", "tags", "image"},
	KindFavorites:     {"user", "recipes"},
	KindShoppingCart:  {"user", "recipes"},
}

var (
	ErrUnknownKind   = errors.New("unknown import kind")
	ErrMissingColumn = errors.New("missing column")
	ErrEmptyField    = errors.New("empty field")
	ErrInvalidValue  = errors.New("invalid value")
	ErrNoImageStore  = errors.New("no image store configured")
)

// FileName is the CSV file read for kind.
func (k Kind) FileName() string {
	return string(k) + ".csv"
}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

type Result struct {
	Kind    Kind
	Created int
	// Skipped names the rows that already existed. Relations are named
	// "<owner id>:<target id>".
	Skipped []string
}

type Importer struct {
	db         *database.Database
	logger     *slog.Logger
	hashParams argon2id.Params
	files      filestore.FileStore
	images     fs.FS
}

type Option func(*Importer)

// WithHashParams overrides the argon2id parameters used for user passwords.
func WithHashParams(p argon2id.Params) Option {
	return func(im *Importer) { im.hashParams = p }
}

// WithImages enables recipe imports. Image paths in recipes.csv are read from
// images and uploaded to files.
func WithImages(files filestore.FileStore, images fs.FS) Option {
	return func(im *Importer) {
		im.files = files
		im.images = images
	}
}

func New(db *database.Database, logger *slog.Logger, opts ...Option) *Importer {
	if logger == nil {
		logger = log.NullLogger()
	}
	im := &Importer{db: db, logger: logger, hashParams: argon2id.DefaultParams}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Dir imports <kind>.csv from dir for each kind, stopping at the first
// failure.
func (im *Importer) Dir(ctx context.Context, dir string, kinds ...Kind) ([]Result, error) {
	results := make([]Result, 0, len(kinds))
	for _, kind := range kinds {
		path := filepath.Join(dir, kind.FileName())
		f, err := os.Open(path)
		if err != nil {
			return results, fmt.Errorf("opening %s: %w", path, err)
		}
		res, err := im.Import(ctx, kind, f)
		_ = f.Close()
		if err != nil {
			return results, fmt.Errorf("importing %s: %w", path, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// Import reads CSV rows of kind from r. The first row is a header naming the
// columns; extra columns are ignored.
func (im *Importer) Import(ctx context.Context, kind Kind, r io.Reader) (Result, error) {
	want, ok := columns[kind]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("reading header: %w", err)
	}
	index, err := columnIndex(header, want)
	if err != nil {
		return Result{}, err
	}

	res := Result{Kind: kind}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("reading row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		row := make(map[string]string, len(want))
		for _, col := range want {
			value := strings.TrimSpace(record[index[col]])
			if value == "" {
				return res, fmt.Errorf("line %d: %w: %s", line, ErrEmptyField, col)
			}
			row[col] = value
		}

		created, skipped, err := im.insert(ctx, kind, row)
		if err != nil {
			return res, fmt.Errorf("line %d: %w", line, err)
		}
		res.Created += created
		res.Skipped = append(res.Skipped, skipped...)
		im.logger.DebugContext(ctx, "imported row",
			slog.String("kind", string(kind)), slog.Int("line", line), slog.Int("created", created))
		for _, name := range skipped {
			im.logger.InfoContext(ctx, "row already exists", slog.String("kind", string(kind)), slog.String("name", name))
		}
	}
	return res, nil
}

func columnIndex(header, want []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range want {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return index, nil
}

// relate inserts one relation; zero affected rows means it already existed.
type relate func(ctx context.Context, owner, target int64) (int64, error)

// insert returns the number of records created and the names of the ones
// that already existed.
func (im *Importer) insert(ctx context.Context, kind Kind, row map[string]string) (int, []string, error) {
	switch kind {
	case KindSubscriptions:
		return im.insertRelations(ctx, row["subscriber"], row["subscriptions"],
			func(ctx context.Context, subscriber, author int64) (int64, error) {
				return im.db.Subscribe(ctx, database.SubscriptionParams{SubscriberID: subscriber, AuthorID: author})
			})
	case KindFavorites:
		return im.insertRelations(ctx, row["user"], row["recipes"],
			func(ctx context.Context, user, recipe int64) (int64, error) {
				return im.db.AddFavorite(ctx, database.UserRecipeParams{UserID: user, RecipeID: recipe})
			})
	case KindShoppingCart:
		return im.insertRelations(ctx, row["user"], row["recipes"],
			func(ctx context.Context, user, recipe int64) (int64, error) {
				return im.db.AddToCart(ctx, database.UserRecipeParams{UserID: user, RecipeID: recipe})
			})
	case KindRecipes:
		created, err := im.insertRecipe(ctx, row)
		return single(created, row["name"], err)
	case KindTags:
		created, err := im.insertRecord(ctx, kind, row)
		return single(created, row["slug"], err)
	case KindUsers:
		created, err := im.insertRecord(ctx, kind, row)
		return single(created, row["username"], err)
	default:
		created, err := im.insertRecord(ctx, kind, row)
		return single(created, row["name"], err)
	}
}

func single(created bool, name string, err error) (int, []string, error) {
	switch {
	case err != nil:
		return 0, nil, err
	case created:
		return 1, nil, nil
	default:
		return 0, []string{name}, nil
	}
}

// insertRecord creates a tag, ingredient or user, reporting whether it was
// created.
func (im *Importer) insertRecord(ctx context.Context, kind Kind, row map[string]string) (bool, error) {
	var err error
	switch kind {
	case KindTags:
		_, err = im.db.CreateTag(ctx, database.CreateTagParams{Name: row["name"], Slug: row["slug"]})
	case KindIngredients:
		_, err = im.db.CreateIngredient(ctx, database.CreateIngredientParams{
			Name:            row["name"],
			MeasurementUnit: row["measurement_unit"],
		})
	case KindUsers:
		var hash string
		hash, err = argon2id.EncodeHash(row["password"], im.hashParams)
		if err != nil {
			return false, fmt.Errorf("hashing password: %w", err)
		}
		_, err = im.db.CreateUser(ctx, database.CreateUserParams{
			Email:        row["email"],
			Username:     row["username"],
			FirstName:    row["first_name"],
			LastName:     row["last_name"],
			PasswordHash: hash,
			Role:         role.RoleUser.ToDB(),
		})
	}

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, pgx.ErrNoRows), database.IsUniqueViolation(err):
		return false, nil
	}
	return false, err
}

func (im *Importer) insertRelations(ctx context.Context, rawOwner, rawTargets string, add relate) (int, []string, error) {
	owner, err := parseID(rawOwner)
	if err != nil {
		return 0, nil, err
	}
	targets, err := parseIDs(rawTargets)
	if err != nil {
		return 0, nil, err
	}

	var (
		created int
		skipped []string
	)
	for _, target := range targets {
		n, err := add(ctx, owner, target)
		if err != nil {
			return created, skipped, fmt.Errorf("relating %d to %d: %w", owner, target, err)
		}
		if n == 0 {
			skipped = append(skipped, fmt.Sprintf("%d:%d", owner, target))
			continue
		}
		created++
	}
	return created, skipped, nil
}

type recipeIngredient struct {
	id     int64
	amount int32
}

// insertRecipe creates a recipe with its ingredients and tags. A recipe with
// the same author and name already existing is left untouched.
func (im *Importer) insertRecipe(ctx context.Context, row map[string]string) (bool, error) {
	authorID, err := parseID(row["author"])
	if err != nil {
		return false, err
	}
	cookingTime, err := strconv.ParseInt(row["cooking_time"], 10, 32)
	if err != nil || cookingTime < 1 {
		return false, fmt.Errorf("%w: cooking_time %q", ErrInvalidValue, row["cooking_time"])
	}
	ingredients, err := parseIngredients(row["ingredients"])
	if err != nil {
		return false, err
	}
	tagIDs, err := parseIDs(row["tags"])
	if err != nil {
		return false, err
	}

	_, err = im.db.FindRecipeID(ctx, database.FindRecipeIDParams{AuthorID: authorID, Name: row["name"]})
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("looking up recipe: %w", err)
	}

	if im.files == nil || im.images == nil {
		return false, ErrNoImageStore
	}
	data, err := fs.ReadFile(im.images, row["image"])
	if err != nil {
		return false, fmt.Errorf("reading image: %w", err)
	}
	image, err := form.Image(data)
	if err != nil {
		return false, fmt.Errorf("image %s: %w", row["image"], err)
	}
	key := filestore.NewRecipeImageKey(image.Suffix)
	if err := im.files.Put(ctx, key, image.Data, image.MimeType); err != nil {
		return false, fmt.Errorf("storing image: %w", err)
	}

	err = im.db.InTx(ctx, func(q database.Querier) error {
		recipeID, err := q.CreateRecipe(ctx, database.CreateRecipeParams{
			AuthorID:    authorID,
			Name:        row["name"],
			Text:        row["text"],
			ImageKey:    key,
			CookingTime: int32(cookingTime),
		})
		if err != nil {
			return fmt.Errorf("creating recipe: %w", err)
		}
		for i, ing := range ingredients {
			if err := q.AddRecipeIngredient(ctx, database.AddRecipeIngredientParams{
				RecipeID:     recipeID,
				IngredientID: ing.id,
				Amount:       ing.amount,
				Position:     int32(i),
			}); err != nil {
				return fmt.Errorf("adding ingredient %d: %w", ing.id, err)
			}
		}
		for _, tagID := range tagIDs {
			if err := q.AddRecipeTag(ctx, database.AddRecipeTagParams{RecipeID: recipeID, TagID: tagID}); err != nil {
				return fmt.Errorf("adding tag %d: %w", tagID, err)
			}
		}
		return nil
	})
	if err != nil {
		if delErr := im.files.Delete(ctx, key); delErr != nil {
			im.logger.ErrorContext(ctx, "failed to delete orphaned image", slog.String("key", key), slog.Any("error", delErr))
		}
		return false, err
	}
	return true, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", ErrInvalidValue, s)
	}
	return id, nil
}

// parseIDs parses a comma separated list of distinct ids.
func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		id, err := parseID(part)
		if err != nil {
			return nil, err
		}
		if slices.Contains(ids, id) {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrInvalidValue, id)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseIngredients parses "<id>:<amount>,..." with distinct ids and
// amounts of at least one.
func parseIngredients(s string) ([]recipeIngredient, error) {
	var out []recipeIngredient
	for _, part := range strings.Split(s, ",") {
		rawID, rawAmount, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("%w: ingredient %q", ErrInvalidValue, part)
		}
		id, err := parseID(rawID)
		if err != nil {
			return nil, err
		}
		amount, err := strconv.ParseInt(strings.TrimSpace(rawAmount), 10, 32)
		if err != nil || amount < 1 {
			return nil, fmt.Errorf("%w: amount %q", ErrInvalidValue, rawAmount)
		}
		if slices.ContainsFunc(out, func(ri recipeIngredient) bool { return ri.id == id }) {
			return nil, fmt.Errorf("%w: duplicate ingredient %d", ErrInvalidValue, id)
		}
		out = append(out, recipeIngredient{id: id, amount: int32(amount)})
	}
	return out, nil
}
