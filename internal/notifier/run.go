package notifier

import (
	"context"
	"errors"
	"flag"
	"os/signal"
	"syscall"

	"veggie-orders/internal/notifier/subscriber"
	"veggie-orders/internal/shop/app/core"
	"veggie-orders/internal/xpkg/config"
	"veggie-orders/pkg/logger"
)

type params struct {
	configPath string
	cfg        *config.Config
}

// Execute starts the notification subscriber service.
func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	newCtx, close := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer close()

	params, err := parseParams(args)
	if err != nil {
		mylog.Action("command_parse_failed").Error("Invalid command received", err)
		return err
	}
	if err = validateParams(params); err != nil {
		mylog.Action("command_validation_failed").Error("Invalid command received", err)
		return err
	}
	mylog.Action("command_validation_completed").Info("Successfully validate params")

	sub := subscriber.New(params.cfg, mylog)

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- sub.Run(newCtx)
	}()

	select {
	case <-newCtx.Done():
		mylog.Action("shutdown_signal_received").Info("Shutdown signal received")
		return sub.Stop()
	case err := <-runErrCh:
		if err != nil {
			mylog.Action("notifier_failed").Error("Subscriber stopped with error", err)
			return err
		}
		return sub.Stop()
	}
}

func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("notification-subscriber", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config-path", "config.yaml", "path for config yaml")

	if err := fs.Parse(args); err != nil {
		return nil, errors.New("cannot parse arguments")
	}

	if *showHelp {
		fs.Usage()
		return nil, core.ErrHelp
	}

	return &params{configPath: *configPath}, nil
}

func validateParams(params *params) error {
	cfg, err := config.LoadConfig(params.configPath)
	if err != nil {
		return err
	}
	if cfg.RMQ == nil || cfg.RMQ.Host == "" {
		return errors.New("rabbitmq configuration is required for the subscriber")
	}
	if cfg.SMTP == nil || cfg.SMTP.Host == "" {
		return errors.New("smtp configuration is required for the subscriber")
	}
	params.cfg = cfg
	return nil
}
