package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/milopalmaerts/travel-planner-app/config"
	"github.com/milopalmaerts/travel-planner-app/database"
	"github.com/milopalmaerts/travel-planner-app/db"
	"github.com/milopalmaerts/travel-planner-app/events"
	"github.com/milopalmaerts/travel-planner-app/handlers"
	"github.com/milopalmaerts/travel-planner-app/identity"
	"github.com/milopalmaerts/travel-planner-app/observability"
	"github.com/milopalmaerts/travel-planner-app/persistence"
	"github.com/milopalmaerts/travel-planner-app/services"
	"github.com/milopalmaerts/travel-planner-app/social"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or failed to load it:", err)
	}

	cfg := config.Load()
	logger := observability.NewLogger(cfg.AppEnv)

	var mongoClient *mongo.Client
	if cfg.MongoURI != "" {
		client, err := db.ConnectMongoDB(cfg.MongoURI)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
		}
		mongoClient = client
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				logger.Error().Err(err).Msg("failed to disconnect MongoDB client")
			}
		}()
	}

	var backend persistence.Backend
	switch cfg.Backend {
	case "memory":
		backend = persistence.NewMemory()
	case "redis":
		r := persistence.NewRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := r.Ping(context.Background()); err != nil {
			logger.Fatal().Err(err).Msg("redis not reachable")
		}
		backend = r
	case "mongo":
		if mongoClient == nil {
			logger.Fatal().Msg("PLACES_BACKEND=mongo requires MONGODB_URI")
		}
		backend = persistence.NewMongo(mongoClient, cfg.MongoDB)
	case "postgres":
		gdb, err := database.Connect(cfg.PostgresURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to Postgres")
		}
		backend = persistence.NewPostgres(gdb)
	default:
		logger.Fatal().Str("backend", cfg.Backend).Msg("unknown PLACES_BACKEND")
	}

	var provider identity.Provider
	if mongoClient != nil {
		provider = identity.NewMongoProvider(mongoClient, cfg.MongoDB)
	} else {
		logger.Warn().Msg("MONGODB_URI not set; accounts are in-memory and lost on restart")
		provider = identity.NewMemoryProvider()
	}

	var pub events.Publisher = events.Noop{}
	if cfg.NatsURL != "" {
		natsPub, err := events.ConnectNATS(cfg.NatsURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to NATS")
		}
		defer natsPub.Close()
		pub = natsPub
	}

	var graph *social.Graph
	if cfg.Neo4jURI != "" {
		driver, err := db.ConnectNeo4j(cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPass)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to Neo4j")
		}
		defer driver.Close(context.Background())
		graph = social.NewGraph(driver)
	}

	manager := services.NewManager(backend, provider, pub, logger)
	h := handlers.New(manager, graph, cfg.UploadDir, logger)

	if cfg.AppEnv != "dev" && cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.Static("/uploads", "./"+cfg.UploadDir)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	api := r.Group("/api")

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)
	api.GET("/auth/profile", h.GetProfile)
	api.PUT("/auth/profile", h.UpdateProfile)

	api.GET("/places", h.GetAllPlaces)
	api.GET("/places/location", h.GetPlacesByLocation)
	api.GET("/places/:id", h.GetPlaceByID)
	api.POST("/places", h.CreatePlace)
	api.PUT("/places/:id", h.UpdatePlace)
	api.DELETE("/places/:id", h.DeletePlace)
	api.PATCH("/places/:id/favorite", h.ToggleFavorite)
	api.PATCH("/places/:id/visited", h.ToggleVisited)

	api.GET("/friends", h.GetFriends)
	api.POST("/friends/:id", h.AddFriend)
	api.DELETE("/friends/:id", h.RemoveFriend)
	api.GET("/friends/discover", h.DiscoverFriends)
	api.GET("/friends/recommendations", h.RecommendFriends)

	api.GET("/public-places", h.GetPublicPlaces)
	api.PATCH("/social/:ownerId/places/:placeId/like", h.ToggleLike)

	logger.Info().Str("addr", cfg.HTTPAddr).Str("backend", cfg.Backend).Msg("travel places service listening")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
