// Package utils provides utility functions and helpers used throughout the observer project.
package utils

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// shutdown.go: Implements graceful server shutdown on OS signals,
// stopping the scheduler and releasing database/Redis connections.

// ServerWithShutdown is an interface for servers that support graceful shutdown via a Shutdown method.
type ServerWithShutdown interface {
	Shutdown(ctx context.Context) error
}

// Stoppable is a long-lived task that can be stopped in place of the
// teacher's MongoDB disconnect hook; *scheduler.Scheduler satisfies it.
type Stoppable interface {
	Stop()
}

// ResourceCloser releases connection-pool resources (database, Redis);
// *config.AppConfig satisfies it.
type ResourceCloser interface {
	Close() error
}

// GracefulShutdown handles OS signals to gracefully shut down the server, stop the
// scheduler, and release its connections with a timeout. It listens for interrupt
// or termination signals, shuts down the server, stops the scheduler, and closes
// the resource closer, logging the results.
func GracefulShutdown(srv ServerWithShutdown, sched Stoppable, closer ResourceCloser, timeout time.Duration) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Println("Shutdown signal received")

	ctxTimeout, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctxTimeout); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	} else {
		log.Println("Server shutdown gracefully.")
	}

	if sched != nil {
		sched.Stop()
		log.Println("Scheduler stopped.")
	}

	if closer != nil {
		if err := closer.Close(); err != nil {
			log.Printf("Error releasing resources: %v", err)
		} else {
			log.Println("Resources released.")
		}
	}
}
