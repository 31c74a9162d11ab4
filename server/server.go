// Package server hosts the HTTP front of the chat service.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/miachat/miachat/internal/profile"
	"github.com/miachat/miachat/server/middleware"
	apiv1 "github.com/miachat/miachat/server/router/api/v1"
	"github.com/miachat/miachat/store"
)

type Server struct {
	profile *profile.Profile
	store   *store.Store
	echo    *echo.Echo
}

func NewServer(profile *profile.Profile, store *store.Store, api *apiv1.APIV1Service) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
	}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			slog.Info("request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status))
			return nil
		},
	}))
	e.Use(middleware.NewRateLimiter(10, 20).Middleware())

	api.Register(e)

	return &Server{
		profile: profile,
		store:   store,
		echo:    e,
	}
}

func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.profile.Addr, s.profile.Port)
	slog.Info("server started", slog.String("address", address), slog.String("mode", s.profile.Mode))
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		slog.Error("failed to shut down server", slog.Any("err", err))
	}
	if err := s.store.Close(); err != nil {
		slog.Error("failed to close store", slog.Any("err", err))
	}
	slog.Info("server shut down")
}
