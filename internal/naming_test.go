package internal_test

import (
	"testing"

	"github.com/reddec/sail-ssl-proxy/internal"
	"github.com/stretchr/testify/assert"
)

func TestComposePath(t *testing.T) {
	cases := map[string]string{
		"./docker/sail-ssl-proxy":  "./docker/sail-ssl-proxy",
		"./docker/sail-ssl-proxy/": "./docker/sail-ssl-proxy",
		"docker/sail-ssl-proxy":    "./docker/sail-ssl-proxy",
		`docker\sail-ssl-proxy\`:   `./docker\sail-ssl-proxy`,
		"../shared/proxy":          "../shared/proxy",
		"/srv/certs/":              "/srv/certs",
		"/":                        "/",
		"":                         ".",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, internal.ComposePath(input), "input %q", input)
	}
}

func TestProxyServiceName(t *testing.T) {
	assert.Equal(t, "laravel.test.proxy", internal.ProxyServiceName("laravel.test"))
}
