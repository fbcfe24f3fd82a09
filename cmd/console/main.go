package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vova4o/labconsole/internal/console/flags"
	"github.com/vova4o/labconsole/internal/console/handlers"
	"github.com/vova4o/labconsole/internal/console/service"
	"github.com/vova4o/labconsole/internal/console/storage"
	"github.com/vova4o/labconsole/internal/console/ui"
	"github.com/vova4o/labconsole/package/jwtauth"
	"github.com/vova4o/labconsole/package/logger"
)

func main() {
	settings := flags.NewSettings()
	settings.LoadConfig()

	logger := logger.NewFileLogger(settings.GetLogLevel(), settings.LogFile)
	logger.Info("Starting the lab console, API " + settings.GetAPIURL())

	stor, err := storage.NewStorage(settings.DBDriver, settings.GetDSN(), logger)
	if err != nil {
		log.Fatalf("Failed to create storage: %v", err)
	}
	defer stor.Close()

	serv := service.NewService(stor, jwtauth.NewTokenReader(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := handlers.NewHTTPClient(
		settings.GetAPIURL(),
		settings.GetMediaURL(),
		settings.GetNotifyURL(),
		&http.Client{Timeout: 2 * settings.GetUploadTimeout()},
		logger,
	)

	stores := ui.Stores{
		Clients:    client.Clients(),
		LabTests:   client.LabTests(),
		Categories: client.Categories(),
		Unions:     client.Unions(settings.GetUploadTimeout()),
		Ads:        client.Ads(),
	}
	limits := ui.Limits{
		LabImage:   settings.LabImageLimit(),
		AdImage:    settings.AdImageLimit(),
		UnionImage: settings.UnionImageLimit(),
	}

	console := ui.NewUI(ctx, client, stores, serv, limits, settings.AppID, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Graceful shutdown
	go func() {
		<-sigChan
		logger.Info("Shutting down the console...")

		cancel()
		if err := stor.Close(); err != nil {
			logger.Error("Failed to close storage: " + err.Error())
		}

		time.Sleep(time.Second)

		logger.Info("Console is shut down")
		os.Exit(0)
	}()

	console.RunUI()
}
