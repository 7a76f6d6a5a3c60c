package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/handson-community/handson-web/internal/config"
	"github.com/handson-community/handson-web/internal/logger"
	"github.com/handson-community/handson-web/internal/router"
	"github.com/handson-community/handson-web/internal/setup"
)

const (
	defaultAddr  = ":8081"
	readTimeout  = 5 * time.Second
	writeTimeout = 10 * time.Second
)

func main() {
	configFolder := os.Getenv("CONFIG_FOLDER")
	if configFolder == "" {
		configFolder = "config"
	}
	cfg := config.MustLoad(configFolder)

	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer deps.CancelFunc()

	r := router.SetupRouter(deps)
	server := configureServer(r, cfg.Public.ListenAddr)

	logger.Log.Info("starting handson-web", "addr", server.Addr)
	log.Fatal(server.ListenAndServe())
}

func configureServer(handler http.Handler, addr string) *http.Server {
	if addr == "" {
		addr = defaultAddr
	}
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
}
