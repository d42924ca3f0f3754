package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"pawprint/api/analysis"
	"pawprint/api/database"
	"pawprint/api/handlers"
	"pawprint/api/middleware"
	"pawprint/api/store"
)

func main() {
	// Load .env file at the very start
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Initialize PostgreSQL Database (for users) ---
	dbClient, err := database.NewPostgresDB()
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
	}
	defer dbClient.Close()

	// --- Initialize ClickHouse Database (for raw events) ---
	chClient, err := database.NewClickHouseDB()
	if err != nil {
		log.Fatalf("Failed to initialize ClickHouse database: %v", err)
	}
	defer chClient.Close()

	// --- Initialize Neo4j Database (for the customer graph, optional) ---
	var graphStore *store.GraphStore
	if os.Getenv("NEO4J_URI") != "" {
		neo4jClient, err := database.NewNeo4jDB()
		if err != nil {
			log.Fatalf("Failed to initialize Neo4j database: %v", err)
		}
		defer neo4jClient.Close()
		graphStore = store.NewGraphStore(neo4jClient)
	} else {
		log.Println("NEO4J_URI not set; graph persistence disabled.")
	}

	// --- Initialize Stores ---
	userStore := store.NewUserStore(dbClient.DB)
	eventStore := store.NewEventStore(chClient)

	// --- Initialize Analysis Pipeline ---
	pipeline, err := analysis.NewAnalysisPipeline(analysis.DefaultConfig())
	if err != nil {
		log.Fatalf("Failed to initialize analysis pipeline: %v", err)
	}

	// --- Initialize Handlers ---
	authHandlers := handlers.NewAuthHandlers(userStore)
	trackHandlers := handlers.NewTrackHandlers(eventStore)
	analysisHandlers := handlers.NewAnalysisHandlers(pipeline, eventStore, graphStore)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")
	{
		// Authentication Endpoints (no authentication required)
		api.POST("/signup", authHandlers.Signup)
		api.POST("/login", authHandlers.Login)
		api.POST("/logout", authHandlers.Logout)

		// Protected Routes (require a valid JWT token)
		protected := api.Group("/")
		protected.Use(middleware.AuthRequired())
		{
			protected.POST("/track", trackHandlers.TrackEvents)

			protected.GET("/analyze", analysisHandlers.AnalyzeCustomer)
			protected.POST("/analyze/upload", analysisHandlers.AnalyzeUpload)

			statsGroup := protected.Group("/stats")
			{
				statsGroup.GET("/event-counts", trackHandlers.GetEventCountsOverTime)
				statsGroup.GET("/top-pages", trackHandlers.GetTopNPages)
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Pawprint API server starting on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Pawprint API server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
