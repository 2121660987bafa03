package enginedebug

import (
	"context"
	"net"
	"net/http"
	"net/http/pprof"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// StartDebugServer serves pprof profiles and prometheus metrics on the given
// listener from a background goroutine. HTTP errors go to the logger; the
// server is forcefully closed when ctx finishes.
func StartDebugServer(ctx context.Context, log *zap.Logger, ln net.Listener) {
	// the same routes net/http/pprof would install on the default mux
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	// a bare hit on the root lands on the pprof index instead of a 404
	mux.Handle("/", http.RedirectHandler("/debug/pprof", http.StatusSeeOther))

	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Handler:  mux,
		ErrorLog: zap.NewStdLog(log),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go srv.Serve(ln)

	go func() {
		<-ctx.Done()
		srv.Close()
	}()
}
