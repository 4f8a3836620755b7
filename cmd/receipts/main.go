// Command receipts consumes booking.confirmed events and appends one line
// per booking to logs/booking.log.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/iliyamo/movie-booking-client/internal/config"
	"github.com/iliyamo/movie-booking-client/internal/logging"
	"github.com/iliyamo/movie-booking-client/internal/queue"
)

func main() {
	url := config.LoadAMQPURL()
	logger := logging.New("receipts", os.Getenv("LOG_LEVEL"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &queue.Consumer{URL: url, Dir: "logs", Log: logger}
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("consumer: %v", err)
	}
}
