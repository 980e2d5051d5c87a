package compose

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reddec/sail-ssl-proxy/internal"
	"github.com/reddec/sail-ssl-proxy/internal/fault"
)

const (
	DataVolume          = "sailcaddydata"
	ConfigVolume        = "sailcaddyconfig"
	ProxyImage          = "sail/filhocodes-ssl-proxy"
	DefaultBuildContext = "./vendor/filhocodes/laravel-sail-ssl-proxy/docker"
	// GatewayHost lets the proxy reach the authorization gate served on the docker host.
	GatewayHost = "host.docker.internal:host-gateway"
)

var (
	ErrNoServices      = errors.New("services section is missing or is not a mapping")
	ErrUnknownService  = errors.New("service is not defined")
	ErrInvalidVolumes  = errors.New("volumes section is not a mapping")
	ErrInvalidPorts    = errors.New("ports is not a sequence")
	ErrInvalidServices = errors.New("service definition is not a mapping")
)

// Target describes where the proxy is attached.
type Target struct {
	ServiceName      string // application service the proxy forwards to
	VolumesDirectory string // host directory with Caddyfile, certificates and authorities, relative to compose file
	ProjectDirectory string // project root relative to compose file, "." if empty
	BuildContext     string // build context of proxy image, DefaultBuildContext if empty
}

// Merge returns copy of the document with the proxy service as the first service, shared volumes declared,
// and host ports 80/443 released by the application service. Merging already merged document changes nothing.
func Merge(doc *Map, target Target) (*Map, error) {
	result := doc.Clone()

	services, ok := result.Map("services")
	if !ok {
		return nil, mergeError(ErrNoServices)
	}

	value, exists := services.Get(target.ServiceName)
	if !exists {
		return nil, mergeError(fmt.Errorf("%s: %w", target.ServiceName, ErrUnknownService))
	}
	app, isMap := value.(*Map)
	if value != nil && !isMap {
		return nil, mergeError(fmt.Errorf("%s: %w", target.ServiceName, ErrInvalidServices))
	}

	services.Prepend(internal.ProxyServiceName(target.ServiceName), proxyService(target, networks(app, result)))

	if err := declareVolumes(result); err != nil {
		return nil, mergeError(err)
	}

	if err := releasePorts(app); err != nil {
		return nil, mergeError(fmt.Errorf("%s: %w", target.ServiceName, err))
	}

	return result, nil
}

func mergeError(err error) error {
	return fault.New(fault.Merge, "", err).WithMessage("Unable to add the SSL Proxy Service to the Docker Compose settings")
}

func proxyService(target Target, networks []interface{}) *Map {
	dir := internal.ComposePath(target.VolumesDirectory)
	buildContext := target.BuildContext
	if buildContext == "" {
		buildContext = DefaultBuildContext
	}

	srv := NewMap(
		Item{"build", NewMap(
			Item{"context", buildContext},
			Item{"dockerfile", "Dockerfile"},
			Item{"args", NewMap(
				Item{"WWWGROUP", "${WWWGROUP}"},
			)},
		)},
		Item{"image", ProxyImage},
		Item{"restart", "unless-stopped"},
		Item{"volumes", []interface{}{
			internal.ComposePath(target.ProjectDirectory) + ":/srv:cache",
			DataVolume + ":/data:cache",
			ConfigVolume + ":/config:cache",
			dir + "/Caddyfile:/etc/caddy/Caddyfile",
			dir + "/certificates:/data/caddy/certificates/local",
			dir + "/authorities:/data/caddy/pki/authorities/local",
		}},
		Item{"ports", []interface{}{
			"${APP_PORT:-80}:80",
			"${APP_SSL_PORT:-443}:443",
		}},
		Item{"extra_hosts", []interface{}{GatewayHost}},
	)
	if len(networks) > 0 {
		srv.Set("networks", networks)
	}
	srv.Set("depends_on", []interface{}{target.ServiceName})
	return srv
}

// networks of the application service, or all top-level networks.
func networks(app *Map, doc *Map) []interface{} {
	var names []interface{}
	if v, ok := app.Get("networks"); ok {
		switch list := v.(type) {
		case []interface{}:
			for _, name := range list {
				names = append(names, fmt.Sprint(name))
			}
		case *Map:
			for _, name := range list.Keys() {
				names = append(names, name)
			}
		}
	}
	if len(names) > 0 {
		return names
	}
	if top, ok := doc.Map("networks"); ok {
		for _, name := range top.Keys() {
			names = append(names, name)
		}
	}
	return names
}

func declareVolumes(doc *Map) error {
	value, exists := doc.Get("volumes")
	volumes, ok := value.(*Map)
	switch {
	case !exists || value == nil:
		volumes = NewMap()
		doc.Set("volumes", volumes)
	case !ok:
		return ErrInvalidVolumes
	}

	volumes.Set(DataVolume, NewMap(Item{"driver", "local"}))
	volumes.Set(ConfigVolume, NewMap(Item{"driver", "local"}))
	return nil
}

func releasePorts(app *Map) error {
	value, exists := app.Get("ports")
	if !exists || value == nil {
		return nil
	}
	ports, ok := value.([]interface{})
	if !ok {
		return ErrInvalidPorts
	}

	kept := make([]interface{}, 0, len(ports))
	for _, port := range ports {
		if !occupiesProxyPort(port) {
			kept = append(kept, port)
		}
	}
	app.Set("ports", kept)
	return nil
}

// occupiesProxyPort reports whether the port definition binds host port 80 or 443.
func occupiesProxyPort(port interface{}) bool {
	switch v := port.(type) {
	case string:
		return isProxyPort(hostPort(v))
	case int:
		return isProxyPort(fmt.Sprint(v))
	case *Map:
		published, ok := v.Get("published")
		if !ok || published == nil {
			return false
		}
		return isProxyPort(withDefault(fmt.Sprint(published)))
	default:
		return false
	}
}

func isProxyPort(port string) bool {
	return port == "80" || port == "443"
}

// hostPort extracts host part of short port syntax: CONTAINER, HOST:CONTAINER or IP:HOST:CONTAINER.
// A single value is returned as is, so bare "80" counts as taken.
func hostPort(value string) string {
	parts := splitPort(value)
	var host string
	switch len(parts) {
	case 1, 2: //nolint:gomnd
		host = parts[0]
	default:
		host = parts[len(parts)-2]
	}
	host = withDefault(host)
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	return host
}

// withDefault replaces ${VAR:-DEFAULT} or ${VAR-DEFAULT} by DEFAULT.
func withDefault(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}
	inner := value[2 : len(value)-1]
	if i := strings.Index(inner, ":-"); i >= 0 {
		return inner[i+2:]
	}
	if i := strings.IndexByte(inner, '-'); i >= 0 {
		return inner[i+1:]
	}
	return value
}

// splitPort splits by colons which are not inside ${...} or [...].
func splitPort(spec string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(spec); i++ {
		switch spec[i] {
		case '{', '[':
			depth++
		case '}', ']':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 {
				parts = append(parts, spec[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, spec[start:])
}
