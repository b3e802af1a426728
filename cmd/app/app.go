package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/techstore/storefront-backend/internal/app"
	config "github.com/techstore/storefront-backend/internal/cfg"
	"github.com/techstore/storefront-backend/pkg/logger"
)

//	@title			Storefront Backend API
//	@version		1.0
//	@description	Каталог товаров, корзина и оформление заказа

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	log := logger.NewSlogLogger()

	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file found, relying on environment")
	}

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	if err := app.Run(cfg, log); err != nil {
		os.Exit(1)
	}
}
