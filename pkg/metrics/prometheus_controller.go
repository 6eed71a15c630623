// Package metrics exposes the process's Prometheus registry over HTTP.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type PrometheusController struct {
	path string
}

func NewPrometheusController(path string) *PrometheusController {
	if path == "" {
		path = "/metrics"
	}
	return &PrometheusController{path: path}
}

func (c *PrometheusController) Key() string {
	return c.path
}

func (c *PrometheusController) Register(r *mux.Router) {
	r.Handle(c.path, promhttp.Handler()).Methods(http.MethodGet)
}

// Server serves the controller until Shutdown.
type Server struct {
	srv    *http.Server
	ln     net.Listener
	logger *logrus.Entry
}

// Listen binds addr and starts serving in the background.
func Listen(addr, path string, logger *logrus.Logger) (*Server, error) {
	r := mux.NewRouter()
	NewPrometheusController(path).Register(r)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &Server{
		srv:    &http.Server{Handler: r, ReadHeaderTimeout: 5 * time.Second},
		ln:     ln,
		logger: logger.WithField("component", "metrics"),
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("metrics server stopped")
		}
	}()
	s.logger.WithField("addr", ln.Addr().String()).Info("serving metrics")
	return s, nil
}

func (s *Server) Addr() string { return s.ln.Addr().String() }

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
