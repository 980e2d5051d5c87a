// Package gate answers on-demand TLS questions of the proxy: may a certificate be issued for the domain.
package gate

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"
)

var ErrDomainNotAuthorized = errors.New("domain is not authorized")

type Decision struct {
	Domain  string
	Allowed bool
}

// Gate is read-only after New and safe for concurrent use.
type Gate struct {
	config  Config
	domains map[string]struct{}
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Gate {
	if cfg.DenyStatus == 0 {
		cfg.DenyStatus = DefaultDenyStatus
	}
	domains := make(map[string]struct{}, len(cfg.AuthorizedDomains))
	for _, domain := range cfg.AuthorizedDomains {
		if domain != "" {
			domains[domain] = struct{}{}
		}
	}
	return &Gate{
		config:  cfg,
		domains: domains,
		logger:  logger.Named("gate"),
	}
}

// Authorize checks domain against allow-list. Match is exact and case-sensitive.
func (g *Gate) Authorize(domain string) Decision {
	_, ok := g.domains[domain]
	return Decision{Domain: domain, Allowed: ok && domain != ""}
}

func (g *Gate) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	logger := g.logger
	if g.config.Debug {
		logger = logger.With(zap.String("request_id", uuid.New().String()))
		logger.Debug("authorization requested",
			zap.Object("config", g.config),
			zap.Any("query", query),
			zap.Any("headers", request.Header))
	}

	decision := g.Authorize(query.Get("domain"))

	status := http.StatusOK
	if !decision.Allowed {
		status = g.config.DenyStatus
	}

	if g.config.Debug {
		logger.Debug("authorization decided",
			zap.String("domain", decision.Domain),
			zap.Bool("allowed", decision.Allowed),
			zap.Int("status", status))
	}
	writer.WriteHeader(status)
}

// HostPolicy adapts gate for autocert.Manager.
func (g *Gate) HostPolicy() autocert.HostPolicy {
	return func(_ context.Context, host string) error {
		if g.Authorize(host).Allowed {
			return nil
		}
		return fmt.Errorf("%s: %w", host, ErrDomainNotAuthorized)
	}
}
