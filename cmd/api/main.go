package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/domain/catalog"
	"foodgram/internal/domain/recipe"
	"foodgram/internal/domain/relation"
	"foodgram/internal/domain/shopping"
	"foodgram/internal/domain/user"
	"foodgram/internal/middleware"
	jwtsvc "foodgram/internal/pkg/jwt"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := db.AutoMigrate(
		&user.User{},
		&catalog.Ingredient{},
		&catalog.Tag{},
		&recipe.Recipe{},
		&recipe.IngredientLine{},
		&relation.Edge{},
	); err != nil {
		logrus.Fatal(err)
	}

	userRepo := user.NewRepository(db)
	catalogRepo := catalog.NewRepository(db)
	recipeRepo := recipe.NewRepository(db)
	relationRepo := relation.NewRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	registerService := relation.NewService(relationRepo, recipeRepo, userRepo)
	images := recipe.NewImageStore(cfg.MediaDir, cfg.MediaURLBase)
	recipeService := recipe.NewService(recipeRepo, catalogRepo, images)
	shoppingService := shopping.NewService(db, registerService)

	catalogHandler := catalog.NewHandler(catalogRepo)
	recipeHandler := recipe.NewHandler(recipeService, registerService, cfg.PageLimit)
	relationHandler := relation.NewHandler(registerService, recipeRepo, userRepo)
	shoppingHandler := shopping.NewHandler(shoppingService)

	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.CORS())
	r.Static(cfg.MediaURLBase, cfg.MediaDir)

	api := r.Group("/api")
	{
		// public reads, identity optional for derived flags
		public := api.Group("/")
		public.Use(middleware.OptionalAuth(j, userRepo))
		{
			catalogHandler.RegisterRoutes(public)
			recipeHandler.RegisterReadRoutes(public)
		}

		// mutations and personal collections
		protected := api.Group("/")
		protected.Use(middleware.RequireAuth(j, userRepo))
		{
			recipeHandler.RegisterWriteRoutes(protected)
			relationHandler.RegisterRoutes(protected)
			shoppingHandler.RegisterRoutes(protected)
		}
	}

	logrus.WithField("addr", cfg.HTTPAddr).Info("starting API server")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logrus.Fatal(err)
	}
}
