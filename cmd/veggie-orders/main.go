package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"veggie-orders/internal/notifier"
	"veggie-orders/internal/shop"
	"veggie-orders/internal/shop/app/core"
	"veggie-orders/pkg/logger"
)

func main() {
	mylogger, err := logger.New("DEBUG")
	if err != nil {
		log.Fatalf("log error: %v", err)
	}

	mylogger.Action("veggie_orders_started").Info("Successfully started")
	// Global flags for selecting the service mode
	fs := flag.NewFlagSet("main", flag.ExitOnError)
	mode := fs.String("mode", "", "service to run: api | notification-subscriber")

	// Only parse the first few args for `--mode`, the rest go to the service
	args := os.Args[1:]
	modeArgs := []string{}
	for i, arg := range args {
		if strings.HasPrefix(arg, "--mode") || strings.HasPrefix(arg, "-mode") {
			modeArgs = args[:i+1]
			break
		}
	}
	if err := fs.Parse(modeArgs); err != nil {
		mylogger.Action("veggie_orders_failed").Error("Failed to parse flags", err)
		help(fs)
		return
	}

	if *mode == "" {
		mylogger.Action("veggie_orders_failed").Error("Failed to start", core.ErrModeFlag)
		help(fs)
		return
	}

	remainingArgs := args[len(modeArgs):]

	ctx := context.Background()
	switch *mode {
	case "api":
		l := mylogger.With("service", "api")
		l.Action("api_service_started").Info("Successfully started")
		if err := shop.Execute(ctx, l, remainingArgs); err != nil {
			l.Action("api_service_failed").Error("Error in api service", err)
			if !errors.Is(err, core.ErrHelp) {
				log.Fatalf("failed to execute api service: %s", err)
			}
		}
		l.Action("api_service_completed").Info("Successfully completed")

	case "notification-subscriber", "ns":
		l := mylogger.With("service", "notification-subscriber")
		l.Action("notification_subscriber_started").Info("Successfully started")
		if err := notifier.Execute(ctx, l, remainingArgs); err != nil {
			l.Action("notification_subscriber_failed").Error("Error in notification-subscriber", err)
			if !errors.Is(err, core.ErrHelp) {
				log.Fatalf("failed to execute notification-subscriber: %s", err)
			}
		}
		l.Action("notification_subscriber_completed").Info("Successfully completed")

	default:
		mylogger.Action("veggie_orders_failed").Error("Failed to start", core.ErrUnknownService)
		help(fs)
	}
}

func help(fs *flag.FlagSet) {
	fmt.Println("\nUsage:")
	fs.PrintDefaults()
	fmt.Println("\nExample:")
	fmt.Println("  ./veggie-orders --mode=api --port=3000")
}
