package main

import (
	"account-service/backend/config"
	"account-service/backend/global"
	"account-service/backend/initialize"
	"account-service/backend/server"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfgPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, *cfgPath)
	stop()
	os.Exit(code)
}

// run returns the process exit code so deferred cleanup, including the log
// file, happens before the process exits.
func run(ctx context.Context, cfgPath string) int {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		return 1
	}
	logCloser, err := initialize.SetupLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		return 1
	}
	defer logCloser.Close()

	app, err := initialize.New(cfg)
	if err != nil {
		global.Logger.Error().Err(err).Msg("build app")
		return 1
	}
	defer app.Close()

	global.Logger.Info().Str("host", cfg.Host).Int("port", cfg.Port).Str("db", cfg.DB.Driver).Msg("account service listening")
	if err := server.RunHTTPServer(ctx, cfg.Host, cfg.Port, app.Router); err != nil {
		global.Logger.Error().Err(err).Msg("http server")
		return 1
	}
	global.Logger.Info().Msg("account service stopped")
	return 0
}
