// Command siteserve serves the TableMoins landing page locally for
// testing. It takes no arguments: run it, edit the page, reload.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/tablemoins/siteserve/internal/devserver"
)

func main() {
	cfg, err := devserver.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := devserver.New(cfg, os.Stdout)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
