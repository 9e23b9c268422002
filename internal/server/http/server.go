package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/ar0085/status-page/internal/history"
	"github.com/ar0085/status-page/internal/notify"
	"github.com/ar0085/status-page/internal/runtime"
	"github.com/ar0085/status-page/internal/server/http/controllers"
	statussvc "github.com/ar0085/status-page/internal/services/status"
	"github.com/ar0085/status-page/internal/tenant"
	"github.com/ar0085/status-page/pkg/log"
)

// Deps carries everything the HTTP layer serves.
type Deps struct {
	Orgs    *tenant.Store
	Catalog *statussvc.Manager
	Manager *notify.Manager
	Logger  log.Logger

	// SendBuffer sizes each realtime session's outbound queue.
	SendBuffer int
	// History serves /v1/events when set.
	History *history.Store
}

type Server struct {
	rt   *runtime.Runtime
	srv  *http.Server
	lis  net.Listener
	ctrl *controllers.ControllerRegistry
}

func New(rt *runtime.Runtime, deps Deps) *Server {
	mux := http.NewServeMux()
	s := &Server{rt: rt, srv: &http.Server{Handler: cors(mux)}}
	s.ctrl = controllers.NewControllerRegistry(rt, controllers.Deps{
		Orgs:       deps.Orgs,
		Catalog:    deps.Catalog,
		Manager:    deps.Manager,
		Logger:     deps.Logger,
		SendBuffer: deps.SendBuffer,
		History:    deps.History,
	})
	s.ctrl.RegisterAllRoutes(mux)
	return s
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
