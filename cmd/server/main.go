package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sustainscan/backend/config"
	httpDelivery "github.com/sustainscan/backend/internal/delivery/http"
	"github.com/sustainscan/backend/internal/domain"
	"github.com/sustainscan/backend/internal/infrastructure/carbon"
	"github.com/sustainscan/backend/internal/infrastructure/gemini"
	"github.com/sustainscan/backend/internal/infrastructure/off"
	"github.com/sustainscan/backend/internal/infrastructure/store"
	"github.com/sustainscan/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting SustainScan Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Destination country: %s", cfg.App.DestinationCountry)

	// Initialize infrastructure dependencies
	favourites, err := store.Open(cfg.Store.Path)
	if err != nil {
		log.Fatalf("Failed to open favourites store: %v", err)
	}
	defer favourites.Close()
	log.Printf("Favourites store: %s", cfg.Store.Path)

	offClient := off.NewClient(off.ClientConfig{
		BaseURL:       cfg.OFF.BaseURL,
		ContributeURL: cfg.OFF.ContributeURL,
		UserAgent:     cfg.OFF.UserAgent,
		Username:      cfg.OFF.Username,
		Password:      cfg.OFF.Password,
	})

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		offClient.SetDebug(true)
		log.Printf("OFF client debug mode enabled")
	}
	log.Printf("OFF API configured: %s", cfg.OFF.BaseURL)

	// Live emissions are optional; without a key the fallback formula
	// handles every estimate.
	var carbonClient domain.CarbonClient
	if cfg.Carbon.APIKey != "" {
		carbonClient = carbon.NewClient(cfg.Carbon.APIKey, cfg.Carbon.BaseURL)
		log.Printf("Carbon API configured: %s", cfg.Carbon.BaseURL)
	} else {
		log.Printf("Carbon API key not set - using fallback emission estimates only")
	}

	// AI alternatives are optional; without a key suggestions come from
	// the OFF category search.
	var generator domain.AlternativesGenerator
	if cfg.Gemini.APIKey != "" {
		g, err := gemini.NewGenerator(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		generator = g
		log.Printf("Gemini configured: model=%s", cfg.Gemini.Model)
	} else {
		log.Printf("Gemini API key not set - alternatives come from catalog search only")
	}

	// Initialize usecase layer
	scanService := usecase.NewScanService(
		offClient,
		favourites,
		usecase.NewOriginService(),
		usecase.NewEmissionService(carbonClient),
		usecase.NewPackagingService(),
		usecase.NewIngredientService(),
		usecase.NewEcoScoreService(),
		usecase.NewAlternativesService(generator, offClient),
		usecase.ScanServiceConfig{
			DestinationCountry: cfg.App.DestinationCountry,
			AlternativesLimit:  cfg.App.AlternativesLimit,
		},
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(scanService, favourites, offClient)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
