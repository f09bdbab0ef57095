package main

import (
	"os"

	"github.com/yigit/unireg/internal/bootstrap"
	"github.com/yigit/unireg/internal/config"
	"github.com/yigit/unireg/internal/pkg/logger"
	"github.com/yigit/unireg/internal/server"
)

// @title UniReg API
// @version 1.0
// @description Course selection and registration API

// @host localhost:8080
// @BasePath /api/v1
// @schemes http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer(config.GetEnv("CONFIG_PATH", bootstrap.DefaultConfigPath))
	if err != nil {
		// Error details are logged within NewServer's setup functions
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run blocks until a shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
