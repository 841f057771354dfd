package app

import (
	"context"
	"cozytown_backend/internal/config"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	ServiceProvider *ServiceProvider
	configPath      string
}

func NewApp(configPath string) *App {
	return &App{configPath: configPath}
}

func (s *App) initServiceProvider() {
	s.ServiceProvider = newServiceProvider(s.configPath)
}

func (s *App) Run() error {
	err := config.Load(".env")
	if err != nil {
		log.Printf("Error loading .env file: %v", err)
	}
	s.initServiceProvider()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Сетка карты создается при старте, существующие тайлы не трогаем
	created, err := s.ServiceProvider.TileService(ctx).SeedGrid(ctx)
	if err != nil {
		return err
	}
	log.Printf("map grid ready, %d tiles created", created)

	srv := &http.Server{
		Addr:              s.ServiceProvider.HTTPCfg().Address(),
		Handler:           s.ServiceProvider.Router(ctx),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("starting server at %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	s.ServiceProvider.DBClient(shutdownCtx).Close()
	return err
}
