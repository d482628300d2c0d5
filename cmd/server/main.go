package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/siherrmann/docqa"
	"github.com/siherrmann/docqa/api"
	"github.com/siherrmann/docqa/helper"
	"github.com/siherrmann/docqa/model"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	config, err := model.NewConfigFromEnv()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	dbConfig, err := helper.NewDatabaseConfiguration()
	if err != nil {
		log.Fatalf("invalid database configuration: %v", err)
	}

	qa, err := docqa.NewDocQA(config, dbConfig)
	if err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}
	defer qa.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	handler := api.NewHandler(qa, qa.Logger())
	handler.RegisterRoutes(e)

	if err := e.Start(":" + config.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped: %v", err)
	}
}
