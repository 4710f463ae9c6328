// Package metrics поднимает HTTP-эндпоинт Prometheus и собирает статистику процесса.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/annel0/tileworld/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server - HTTP-сервер /metrics
type Server struct {
	srv    *http.Server
	ln     net.Listener
	logger *logging.Logger
	done   chan struct{}
}

// Start слушает addr (например ":2112") и отдаёт метрики из gatherer.
// Метод неблокирующий: обслуживание идёт в отдельной горутине.
func Start(addr string, gatherer prometheus.Gatherer, logger *logging.Logger) (*Server, error) {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if logger == nil {
		logger = logging.GetComponentLogger("metrics")
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s := &Server{
		srv:    &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		ln:     ln,
		logger: logger,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		logger.Info("📈 Prometheus /metrics доступен по адресу %s", ln.Addr())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()
	return s, nil
}

// Addr возвращает фактический адрес сервера
func (s *Server) Addr() string { return s.ln.Addr().String() }

// Shutdown останавливает сервер и ждёт завершения обслуживания
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	<-s.done
	return err
}
