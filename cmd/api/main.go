package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"rangeland-forage/internal/api/handlers"
	"rangeland-forage/internal/api/middleware"
	"rangeland-forage/internal/results"
)

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	// Optional run history; endpoints degrade gracefully without it.
	var store *results.Store
	if dbPath := os.Getenv("RESULTS_DB"); dbPath != "" {
		var err error
		store, err = results.Open(dbPath)
		if err != nil {
			log.Fatalf("opening results db: %v", err)
		}
		defer store.Close()
		log.Printf("Results database: %s", store.DBPath)
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(middleware.CORS())
	router.Use(middleware.Recovery())

	simulateHandler := handlers.NewSimulateHandler(store)
	breedHandler := handlers.NewBreedHandler()
	runsHandler := handlers.NewRunsHandler(store)
	streamHandler := handlers.NewStreamHandler()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/simulate", simulateHandler.Simulate)
		v1.GET("/simulate/watch", streamHandler.Watch)
		v1.GET("/breeds", breedHandler.ListBreeds)
		v1.GET("/runs", runsHandler.ListRuns)
		v1.GET("/runs/:id/records", runsHandler.GetRunRecords)
	}

	log.Printf("Listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
