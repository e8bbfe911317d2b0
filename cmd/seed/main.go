package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/domain/catalog"
	"foodgram/internal/domain/recipe"
	"foodgram/internal/domain/relation"
	"foodgram/internal/domain/user"
	jwtsvc "foodgram/internal/pkg/jwt"
)

// Seeds a local database with demo reference data, users and recipes, and
// prints dev tokens for manual API testing.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&user.User{},
		&catalog.Ingredient{},
		&catalog.Tag{},
		&recipe.Recipe{},
		&recipe.IngredientLine{},
		&relation.Edge{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (children first to avoid FK errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM relation_edges")
	db.Exec("DELETE FROM recipe_ingredients")
	db.Exec("DELETE FROM recipe_tags")
	db.Exec("DELETE FROM recipes")
	db.Exec("DELETE FROM ingredients")
	db.Exec("DELETE FROM tags")
	db.Exec("DELETE FROM users")

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	users := []user.User{
		{Email: "alice@example.com", Username: "alice", FirstName: "Alice", LastName: "Baker", PasswordHash: string(hash), Role: user.RoleUser},
		{Email: "bob@example.com", Username: "bob", FirstName: "Bob", LastName: "Cook", PasswordHash: string(hash), Role: user.RoleUser},
		{Email: "admin@example.com", Username: "admin", FirstName: "Ada", LastName: "Admin", PasswordHash: string(hash), Role: user.RoleAdmin, IsSuperuser: true},
	}
	if err := db.Create(&users).Error; err != nil {
		log.Fatal(err)
	}

	tags := []catalog.Tag{
		{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
		{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
		{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
	}
	if err := db.Create(&tags).Error; err != nil {
		log.Fatal(err)
	}

	ingredients := []catalog.Ingredient{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "salt", MeasurementUnit: "g"},
		{Name: "sugar", MeasurementUnit: "g"},
		{Name: "milk", MeasurementUnit: "ml"},
		{Name: "eggs", MeasurementUnit: "pcs"},
		{Name: "butter", MeasurementUnit: "g"},
	}
	if err := db.Create(&ingredients).Error; err != nil {
		log.Fatal(err)
	}

	recipeRepo := recipe.NewRepository(db)
	ctx := context.Background()

	pancakes := &recipe.Recipe{
		AuthorID:    users[0].ID,
		Name:        "Pancakes",
		Text:        "Whisk everything together and fry on a hot pan.",
		CookingTime: 25,
	}
	err = recipeRepo.Create(ctx, pancakes,
		[]recipe.IngredientLine{
			{IngredientID: ingredients[0].ID, Amount: 200, Position: 0},
			{IngredientID: ingredients[3].ID, Amount: 300, Position: 1},
			{IngredientID: ingredients[4].ID, Amount: 2, Position: 2},
		},
		[]catalog.Tag{tags[0]},
	)
	if err != nil {
		log.Fatal(err)
	}

	shortbread := &recipe.Recipe{
		AuthorID:    users[1].ID,
		Name:        "Shortbread",
		Text:        "Cream butter and sugar, fold in flour, bake until golden.",
		CookingTime: 60,
	}
	err = recipeRepo.Create(ctx, shortbread,
		[]recipe.IngredientLine{
			{IngredientID: ingredients[0].ID, Amount: 300, Position: 0},
			{IngredientID: ingredients[2].ID, Amount: 100, Position: 1},
			{IngredientID: ingredients[5].ID, Amount: 200, Position: 2},
		},
		[]catalog.Tag{tags[2]},
	)
	if err != nil {
		log.Fatal(err)
	}

	edges := []relation.Edge{
		{Kind: relation.KindFavorite, SubjectID: users[1].ID, ObjectID: pancakes.ID},
		{Kind: relation.KindCart, SubjectID: users[1].ID, ObjectID: pancakes.ID},
		{Kind: relation.KindCart, SubjectID: users[1].ID, ObjectID: shortbread.ID},
		{Kind: relation.KindSubscription, SubjectID: users[1].ID, ObjectID: users[0].ID},
	}
	if err := db.Create(&edges).Error; err != nil {
		log.Fatal(err)
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	for _, u := range users {
		token, err := j.GenerateToken(u.ID)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s (%s): Bearer %s\n", u.Username, u.Role, token)
	}

	log.Println("Seed complete")
}
