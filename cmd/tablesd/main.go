// Command tablesd serves the networked tunables store over websocket.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/docopt/docopt-go"

	"github.com/neuronlabs/tunables/config"
	"github.com/neuronlabs/tunables/log"
	"github.com/neuronlabs/tunables/store/network"
)

const version = "0.1.0"

const usage = `Tunables store server.

Usage:
    tablesd [--config=<config>] [--listen=<address>] [--path=<path>] [--secret=<secret>] [--log=<level>]
    tablesd -h | --help
    tablesd --version

Options:
    -h --help            Show this screen.
    --version            Show version.
    --config=<config>    Config file path. By default 'config' is searched in the working directory.
    --listen=<address>   Listen address i.e. ':5810'.
    --path=<path>        Websocket endpoint path i.e. '/nt'.
    --secret=<secret>    Bearer token secret. Enables the authentication.
    --log=<level>        Logger level.`

func main() {
	opts, err := docopt.ParseArgs(usage, os.Args[1:], version)
	if err != nil {
		panic(err)
	}

	log.Default()
	cfg, err := readConfig(opts)
	if err != nil {
		log.Fatalf("Reading config failed: %v", err)
	}
	applyFlags(opts, cfg)

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err = log.SetLevel(level); err != nil {
		log.Fatalf("%v", err)
	}

	server := network.NewServer(network.WithConfig(cfg.Store), network.WithMiddlewares(network.LogRequests))
	mux := http.NewServeMux()
	mux.Handle(cfg.Store.Path, server)

	httpServer := &http.Server{
		Addr:              cfg.Store.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: cfg.Store.ReadTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infof("Listening on: '%s%s'", cfg.Store.ListenAddress, cfg.Store.Path)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Listening failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Infof("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Store.ShutdownTimeout)
	defer cancel()

	if err := server.Close(); err != nil {
		log.Errorf("Closing store server failed: %v", err)
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Shutdown failed: %v", err)
	}
}

func readConfig(opts docopt.Opts) (*config.Config, error) {
	if path, _ := opts.String("--config"); path != "" {
		return config.ReadConfigFile(path)
	}
	cfg, err := config.ReadConfig()
	if err != nil {
		log.Debugf("No config file found: %v, using defaults.", err)
		return config.ReadDefaultConfig(), nil
	}
	return cfg, nil
}

func applyFlags(opts docopt.Opts, cfg *config.Config) {
	if listen, _ := opts.String("--listen"); listen != "" {
		cfg.Store.ListenAddress = listen
	}
	if path, _ := opts.String("--path"); path != "" {
		cfg.Store.Path = path
	}
	if secret, _ := opts.String("--secret"); secret != "" {
		cfg.Store.TokenSecret = secret
	}
	if level, _ := opts.String("--log"); level != "" {
		cfg.Log.Level = level
	}
}
