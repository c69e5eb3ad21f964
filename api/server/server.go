// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package server serves the node's HTTP APIs under /ext.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/luxfi/log"
	"github.com/luxfi/metric"
)

const (
	baseURL              = "/ext"
	maxConcurrentStreams = 64
)

var (
	_ Server = (*server)(nil)

	errRouteReserved = errors.New("route is already reserved")
	errDispatched    = errors.New("server is already dispatched")
)

// Server maintains the HTTP router
type Server interface {
	// AddRoute registers [handler] at /ext/[base][endpoint]. Routes must be
	// added before Dispatch.
	AddRoute(handler http.Handler, base, endpoint string) error
	// Dispatch starts the API server
	Dispatch() error
	// Shutdown this server
	Shutdown() error
}

type HTTPConfig struct {
	ReadTimeout       time.Duration `json:"readTimeout"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout"`
	WriteTimeout      time.Duration `json:"writeTimeout"`
	IdleTimeout       time.Duration `json:"idleTimeout"`
}

type server struct {
	// log this server writes to
	log log.Logger

	shutdownTimeout time.Duration

	metrics *serverMetrics

	lock       sync.Mutex
	dispatched bool
	routes     map[string]struct{}
	router     *mux.Router

	srv *http.Server

	// Listener used to serve traffic
	listener net.Listener
}

// New returns an instance of a Server.
func New(
	log log.Logger,
	listener net.Listener,
	allowedOrigins []string,
	shutdownTimeout time.Duration,
	registerer metric.Registerer,
	httpConfig HTTPConfig,
) (Server, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}

	router := mux.NewRouter()
	handler := wrapHandler(router, allowedOrigins)

	httpServer := &http.Server{
		Handler: h2c.NewHandler(
			handler,
			&http2.Server{
				MaxConcurrentStreams: maxConcurrentStreams,
			}),
		ReadTimeout:       httpConfig.ReadTimeout,
		ReadHeaderTimeout: httpConfig.ReadHeaderTimeout,
		WriteTimeout:      httpConfig.WriteTimeout,
		IdleTimeout:       httpConfig.IdleTimeout,
	}

	log.Info("API created with allowed origins: " + strings.Join(allowedOrigins, ","))

	return &server{
		log:             log,
		shutdownTimeout: shutdownTimeout,
		metrics:         m,
		routes:          make(map[string]struct{}),
		router:          router,
		srv:             httpServer,
		listener:        listener,
	}, nil
}

func (s *server) Dispatch() error {
	s.lock.Lock()
	s.dispatched = true
	s.lock.Unlock()

	s.log.Info("API server listening",
		log.Stringer("address", s.listener.Addr()),
	)
	err := s.srv.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *server) AddRoute(handler http.Handler, base, endpoint string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.dispatched {
		return errDispatched
	}

	url := fmt.Sprintf("%s/%s%s", baseURL, base, endpoint)
	if _, ok := s.routes[url]; ok {
		return fmt.Errorf("%w: %s", errRouteReserved, url)
	}
	s.routes[url] = struct{}{}

	s.log.Info("adding route",
		log.String("url", url),
	)
	s.router.Handle(url, s.metrics.wrapHandler(base, handler))
	return nil
}

func (s *server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	err := s.srv.Shutdown(ctx)
	cancel()

	// If shutdown times out, make sure the server is still shutdown.
	_ = s.srv.Close()
	return err
}

func wrapHandler(handler http.Handler, allowedOrigins []string) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
	}).Handler(handler)
}
