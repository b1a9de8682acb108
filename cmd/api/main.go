package main

import (
	"os"

	"github.com/sapatil2212/edutechunite-sub005/internal/pkg/logger"
	"github.com/sapatil2212/edutechunite-sub005/internal/server"
)

// @title EduTechUnite Examination API
// @version 1.0
// @description Examination lifecycle, marks entry and results analytics API

// @contact.name API Support
// @contact.email support@edutechunite.app

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
