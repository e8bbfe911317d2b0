package recipe

import (
	"context"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// registers the cgo-free "sqlite" database/sql driver
	_ "modernc.org/sqlite"

	"foodgram/internal/domain/catalog"
	"foodgram/internal/domain/relation"
	"foodgram/internal/domain/user"
)

type testEnv struct {
	db          *gorm.DB
	svc         *Service
	author      *user.User
	other       *user.User
	admin       *user.User
	tags        []catalog.Tag
	ingredients []catalog.Ingredient
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:recipe_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&user.User{},
		&catalog.Ingredient{},
		&catalog.Tag{},
		&Recipe{},
		&IngredientLine{},
		&relation.Edge{},
	))

	users := []user.User{
		{Email: "author@example.com", Username: "author"},
		{Email: "other@example.com", Username: "other"},
		{Email: "admin@example.com", Username: "admin", Role: user.RoleAdmin},
	}
	require.NoError(t, db.Create(&users).Error)

	tags := []catalog.Tag{
		{Name: "Breakfast", Slug: "breakfast"},
		{Name: "Dinner", Slug: "dinner"},
	}
	require.NoError(t, db.Create(&tags).Error)

	ingredients := []catalog.Ingredient{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "salt", MeasurementUnit: "g"},
		{Name: "sugar", MeasurementUnit: "g"},
	}
	require.NoError(t, db.Create(&ingredients).Error)

	images := NewImageStore(t.TempDir(), "/media")
	svc := NewService(NewRepository(db), catalog.NewRepository(db), images)

	return &testEnv{
		db:          db,
		svc:         svc,
		author:      &users[0],
		other:       &users[1],
		admin:       &users[2],
		tags:        tags,
		ingredients: ingredients,
	}
}

func testImage() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not a real png"))
}

func (e *testEnv) validInput() Input {
	return Input{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 25,
		TagIDs:      []int64{e.tags[0].ID},
		Lines: []LineInput{
			{IngredientID: e.ingredients[0].ID, Amount: 200},
			{IngredientID: e.ingredients[1].ID, Amount: 5},
		},
	}
}

func TestCreateRoundTrip(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	rec, err := env.svc.Create(ctx, env.author, env.validInput())
	require.NoError(t, err)
	assert.Equal(t, env.author.ID, rec.AuthorID)
	require.NotNil(t, rec.Author)
	assert.Equal(t, "author", rec.Author.Username)

	loaded, err := env.svc.Get(ctx, rec.ID)
	require.NoError(t, err)

	require.Len(t, loaded.Tags, 1)
	assert.Equal(t, "breakfast", loaded.Tags[0].Slug)

	// line order follows the request
	require.Len(t, loaded.Ingredients, 2)
	assert.Equal(t, env.ingredients[0].ID, loaded.Ingredients[0].IngredientID)
	assert.Equal(t, 200, loaded.Ingredients[0].Amount)
	assert.Equal(t, env.ingredients[1].ID, loaded.Ingredients[1].IngredientID)
	assert.Equal(t, 5, loaded.Ingredients[1].Amount)
	require.NotNil(t, loaded.Ingredients[0].Ingredient)
	assert.Equal(t, "flour", loaded.Ingredients[0].Ingredient.Name)
}

func TestCreateRejectsInvalidComposition(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"empty tags", func(in *Input) { in.TagIDs = nil }},
		{"empty ingredients", func(in *Input) { in.Lines = nil }},
		{"zero amount", func(in *Input) { in.Lines[0].Amount = 0 }},
		{"negative amount", func(in *Input) { in.Lines[1].Amount = -3 }},
		{"duplicate ingredient", func(in *Input) { in.Lines[1].IngredientID = in.Lines[0].IngredientID }},
		{"non-positive cooking time", func(in *Input) { in.CookingTime = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := env.validInput()
			tt.mutate(&in)

			_, err := env.svc.Create(ctx, env.author, in)
			assert.ErrorIs(t, err, ErrInvalidComposition)
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&Recipe{}).Count(&count).Error)
	assert.Zero(t, count, "no recipe may be persisted from an invalid request")
}

func TestCreateRejectsUnknownReferences(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	in := env.validInput()
	in.Lines[0].IngredientID = 9999
	_, err := env.svc.Create(ctx, env.author, in)
	assert.ErrorIs(t, err, ErrIngredientNotFound)

	in = env.validInput()
	in.TagIDs = []int64{9999}
	_, err = env.svc.Create(ctx, env.author, in)
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestReplaceDiscardsPreviousComposition(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	rec, err := env.svc.Create(ctx, env.author, env.validInput())
	require.NoError(t, err)

	in := Input{
		Name:        "Pancakes v2",
		Text:        "Different base.",
		CookingTime: 30,
		TagIDs:      []int64{env.tags[1].ID},
		Lines: []LineInput{
			{IngredientID: env.ingredients[2].ID, Amount: 1},
		},
	}
	updated, err := env.svc.Replace(ctx, env.author, rec.ID, in)
	require.NoError(t, err)

	assert.Equal(t, "Pancakes v2", updated.Name)
	assert.Equal(t, 30, updated.CookingTime)

	// the old lines are gone entirely, not merged
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, env.ingredients[2].ID, updated.Ingredients[0].IngredientID)
	assert.Equal(t, 1, updated.Ingredients[0].Amount)

	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "dinner", updated.Tags[0].Slug)

	var lineCount int64
	require.NoError(t, env.db.Model(&IngredientLine{}).Where("recipe_id = ?", rec.ID).Count(&lineCount).Error)
	assert.Equal(t, int64(1), lineCount)
}

func TestReplaceForbiddenLeavesRecipeUnchanged(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	rec, err := env.svc.Create(ctx, env.author, env.validInput())
	require.NoError(t, err)

	in := env.validInput()
	in.Name = "Hijacked"
	_, err = env.svc.Replace(ctx, env.other, rec.ID, in)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.svc.Replace(ctx, nil, rec.ID, in)
	assert.ErrorIs(t, err, ErrForbidden)

	loaded, err := env.svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", loaded.Name)
	assert.Len(t, loaded.Ingredients, 2)
}

func TestReplaceByAdminKeepsAuthor(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	rec, err := env.svc.Create(ctx, env.author, env.validInput())
	require.NoError(t, err)

	in := env.validInput()
	in.Name = "Moderated"
	updated, err := env.svc.Replace(ctx, env.admin, rec.ID, in)
	require.NoError(t, err)

	assert.Equal(t, "Moderated", updated.Name)
	assert.Equal(t, env.author.ID, updated.AuthorID, "authorship never changes on update")
}

func TestReplaceWithoutImageKeepsStoredImage(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	in := env.validInput()
	in.ImageBase64 = testImage()
	rec, err := env.svc.Create(ctx, env.author, in)
	require.NoError(t, err)
	require.NotEmpty(t, rec.Image)

	update := env.validInput()
	update.Name = "Renamed"
	updated, err := env.svc.Replace(ctx, env.author, rec.ID, update)
	require.NoError(t, err)

	assert.Equal(t, rec.Image, updated.Image)
}

func TestDeleteCascadesRelationEdges(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	rec, err := env.svc.Create(ctx, env.author, env.validInput())
	require.NoError(t, err)

	edges := []relation.Edge{
		{Kind: relation.KindFavorite, SubjectID: env.other.ID, ObjectID: rec.ID},
		{Kind: relation.KindCart, SubjectID: env.other.ID, ObjectID: rec.ID},
		{Kind: relation.KindCart, SubjectID: env.admin.ID, ObjectID: rec.ID},
	}
	require.NoError(t, env.db.Create(&edges).Error)

	require.NoError(t, env.svc.Delete(ctx, env.author, rec.ID))

	_, err = env.svc.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var edgeCount int64
	require.NoError(t, env.db.Model(&relation.Edge{}).Where("object_id = ?", rec.ID).Count(&edgeCount).Error)
	assert.Zero(t, edgeCount, "cart and favorite edges must not dangle")

	var lineCount int64
	require.NoError(t, env.db.Model(&IngredientLine{}).Where("recipe_id = ?", rec.ID).Count(&lineCount).Error)
	assert.Zero(t, lineCount)
}

func TestDeleteForbiddenForNonAuthor(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	rec, err := env.svc.Create(ctx, env.author, env.validInput())
	require.NoError(t, err)

	err = env.svc.Delete(ctx, env.other, rec.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.svc.Get(ctx, rec.ID)
	require.NoError(t, err)
}

func TestListFiltersByAuthorAndTag(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, env.author, env.validInput())
	require.NoError(t, err)

	in := env.validInput()
	in.Name = "Dinner dish"
	in.TagIDs = []int64{env.tags[1].ID}
	_, err = env.svc.Create(ctx, env.other, in)
	require.NoError(t, err)

	recipes, total, err := env.svc.List(ctx, Filters{AuthorID: env.author.ID, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Pancakes", recipes[0].Name)

	recipes, total, err = env.svc.List(ctx, Filters{TagSlugs: []string{"dinner"}, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Dinner dish", recipes[0].Name)
}
