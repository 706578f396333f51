package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fathima-sithara/visa-service/internal/bootstrap"
	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := bootstrap.Init(ctx, *configPath)
	if err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}
	sugar := app.Sugar

	go func() {
		addr := app.Config.Addr()
		sugar.Infof("Server listening on %s", addr)
		if err := app.App.Listen(addr); err != nil {
			sugar.Errorf("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	sugar.Info("Shutting down server...")

	ctxShut, cancel := context.WithTimeout(context.Background(), app.Config.ShutdownTimeout)
	defer cancel()
	if err := app.App.ShutdownWithContext(ctxShut); err != nil {
		sugar.Errorf("Fiber app shutdown error: %v", err)
	}
	sugar.Info("Graceful shutdown complete")
	cleanup(ctxShut)
}
