package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/quillhub/internal"
	"github.com/2beens/quillhub/internal/config"
	"github.com/2beens/quillhub/internal/logging"
	"github.com/2beens/quillhub/pkg"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	secrets, err := config.LoadSecrets()
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        secrets.SentryDSN,
		SentryServerName: "quillhub-service",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	if secrets.RedisPassword == "" {
		log.Errorf("redis password not set. use QUILLHUB_REDIS_PASS")
	}
	if secrets.HoneycombEnabled && secrets.HoneycombAPIKey == "" {
		log.Warnln("HONEYCOMB_API_KEY env var not set")
	}

	mediaDirOk, err := pkg.PathExists(cfg.MediaRootPath, true)
	if err != nil {
		log.Fatalf("check media root dir: %s", err)
	}
	if !mediaDirOk {
		if err := os.MkdirAll(cfg.MediaRootPath, 0o755); err != nil {
			log.Fatalf("create media root dir: %s", err)
		}
	}
	log.Printf("media root dir: %s", cfg.MediaRootPath)

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := internal.NewServer(ctx, internal.NewServerParams{
		Config:  cfg,
		Secrets: secrets,
	})
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	if err := server.GracefulShutdown(); err != nil {
		log.Errorf("graceful shutdown: %s", err)
	}
}
