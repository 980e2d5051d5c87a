package gate

import (
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap/zapcore"
)

const (
	DefaultRoute      = ".filhocodes-sail-ssl-proxy"
	DefaultDenyStatus = http.StatusForbidden
)

// Config of authorization gate. Tags are consumed by go-flags.
type Config struct {
	Environments       []string `long:"environments" env:"SSL_PROXY_ENVIRONMENTS" env-delim:"," description:"Application environments where the gate is active" default:"local"`
	AuthorizedDomains  []string `long:"authorized-domains" env:"SSL_PROXY_AUTHORIZED_DOMAINS" env-delim:"," description:"Domains allowed to receive certificates, host of APP_URL if not set"`
	AuthorizationRoute string   `long:"authorization-route" env:"SSL_PROXY_AUTHORIZATION_ROUTE" description:"Path of the authorization endpoint" default:".filhocodes-sail-ssl-proxy"`
	Debug              bool     `long:"debug-authorization-controller" env:"SSL_PROXY_DEBUG_AUTHORIZATION_CONTROLLER" description:"Log every authorization request and decision"`
	ProxyServerIP      string   `long:"proxy-server-ip" env:"FILHOCODES_LARAVEL_SAIL_SSL_PROXY_SERVER_IP" description:"IP of proxy container"`
	Environment        string   `long:"environment" env:"APP_ENV" description:"Current application environment" default:"production"`
	Bind               string   `long:"bind" short:"b" env:"SSL_PROXY_BIND" description:"Address to where bind HTTP server" default:"0.0.0.0:8089"`
	DenyStatus         int      `long:"deny-status" env:"SSL_PROXY_DENY_STATUS" description:"HTTP status for not authorized domains" default:"403"`
	AutoTLS            bool     `long:"auto-tls" env:"SSL_PROXY_AUTO_TLS" description:"Serve over HTTPS with ACME certificates issued only for authorized domains"`
	CacheDir           string   `long:"cache-dir" env:"SSL_PROXY_CACHE_DIR" description:"Directory for ACME certificates" default:"ssl"`
}

// Active reports whether the gate is enabled in the current environment.
func (c Config) Active() bool {
	for _, env := range c.Environments {
		if env == c.Environment {
			return true
		}
	}
	return false
}

// Route returns absolute path of authorization endpoint.
func (c Config) Route() string {
	route := strings.Trim(c.AuthorizationRoute, "/")
	if route == "" {
		route = DefaultRoute
	}
	return "/" + route
}

func (c Config) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	if err := enc.AddReflected("environments", c.Environments); err != nil {
		return err
	}
	if err := enc.AddReflected("authorized_domains", c.AuthorizedDomains); err != nil {
		return err
	}
	enc.AddString("authorization_route", c.AuthorizationRoute)
	enc.AddBool("debug_authorization_controller", c.Debug)
	enc.AddString("proxy_server_ip", c.ProxyServerIP)
	enc.AddString("environment", c.Environment)
	return nil
}

// HostOf returns host name of URL, or empty string if URL can not be parsed.
func HostOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return u.Hostname()
}
