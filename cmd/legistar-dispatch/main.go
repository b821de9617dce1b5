package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"legistar-dispatch/internal/app"
)

func main() {
	dispatcherApp := app.InitApp()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := dispatcherApp.StartApp(ctx)
	if err != nil {
		log.Fatalf("failed to start dispatcher: %v", err)
		return
	}

	<-ctx.Done()

	log.Println("Shutting down the dispatcher...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := dispatcherApp.StopApp(shutdownCtx); err != nil {
		log.Fatalf("failed to stop dispatcher gracefully: %v", err)
	}

	log.Println("Exited cleanly")
}
