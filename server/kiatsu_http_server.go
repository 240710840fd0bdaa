package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// KiatsuHttpServer serves the manual-trigger and preview endpoints and
// blocks until a termination signal arrives.
type KiatsuHttpServer struct {
	router    *Router
	muxRouter *mux.Router
	port      string
	logger    *zap.Logger
}

func NewKiatsuHttpServer(router *Router, muxRouter *mux.Router, port string, logger *zap.Logger) *KiatsuHttpServer {
	return &KiatsuHttpServer{
		router:    router,
		muxRouter: muxRouter,
		port:      port,
		logger:    logger,
	}
}

func (s *KiatsuHttpServer) Start() {
	s.router.RegisterRoutes()

	srv := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.muxRouter,
	}

	// Channel to listen for interrupt or termination signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start the server in a goroutine so it doesn't block
	go func() {
		s.logger.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("ListenAndServe()", zap.Error(err))
		}
	}()

	// Wait for a signal to shut down
	<-stop
	s.logger.Info("Shutting down the server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	s.logger.Info("Server exiting")
}
