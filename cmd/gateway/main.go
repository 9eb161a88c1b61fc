package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	binance "github.com/betbot/bingate/binance/client"
	"github.com/betbot/bingate/internal/gateway"
	"github.com/betbot/bingate/internal/risk"
	"github.com/betbot/bingate/pkg/config"
	"github.com/betbot/bingate/pkg/logger"
)

func main() {
	// Load .env (best-effort). If missing, fall back to real env vars.
	_ = godotenv.Load()

	configPath := flag.String("config", os.Getenv("BINGATE_CONFIG"), "optional YAML config file")
	flag.Parse()

	cfg, err := config.LoadFromFile(*configPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputFile: cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	}); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}

	venue := binance.New(binance.Config{
		BaseURL:      cfg.BaseURL,
		APIKey:       cfg.APIKey,
		APISecret:    cfg.APISecret,
		RecvWindowMS: cfg.RecvWindowMS,
	})

	// Eager sync plus the 600s background refresher; runs for the process
	// lifetime.
	syncCtx, syncCancel := context.WithCancel(context.Background())
	defer syncCancel()
	venue.StartTimeSync(syncCtx)

	guards := risk.New(risk.Limits{
		MaxNotional:          cfg.MaxNotional,
		MaxQuantity:          cfg.MaxQuantity,
		MaxPriceDeviationPct: cfg.MaxPriceDeviationPct,
	}, venue.LastPrice)

	svc := gateway.NewService(venue, guards)
	srv := gateway.New(gateway.Config{AgentKey: cfg.AgentKey, Env: cfg.Env}, svc)

	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Infof("gateway listening on %s (env=%s base=%s)", cfg.Listen, cfg.Env, cfg.BaseURL)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("http server error: %v", err)
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	<-stopCh

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)

	fmt.Println("gateway stopped")
}
