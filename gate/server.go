package gate

import (
	"context"
	"net"
	"net/http"

	"github.com/reddec/sail-ssl-proxy/internal"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"
)

// NewServer creates HTTP server with the gate mounted on the authorization route.
// In inactive environments every request is answered by 404.
// With AutoTLS the server gets TLS config backed by autocert, limited to the authorized domains,
// and must be started by ListenAndServeTLS("", "").
func NewServer(ctx context.Context, cfg Config, gate *Gate, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	if cfg.Active() {
		mux.Handle(cfg.Route(), gate)
	} else {
		logger.Warn("gate is not active in the environment", zap.String("environment", cfg.Environment), zap.Strings("environments", cfg.Environments))
	}

	ctx = internal.WithLogger(ctx, logger)
	server := &http.Server{
		Addr:     cfg.Bind,
		Handler:  mux,
		ErrorLog: zap.NewStdLog(internal.SubLogger(ctx, "http-server")),
		BaseContext: func(listener net.Listener) context.Context {
			return ctx
		},
	}

	if cfg.AutoTLS {
		manager := &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			Cache:      autocert.DirCache(cfg.CacheDir),
			HostPolicy: gate.HostPolicy(),
		}
		server.TLSConfig = manager.TLSConfig()
	}
	return server
}
