package internal_test

import (
	"context"
	"errors"
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/network"
	"github.com/reddec/sail-ssl-proxy/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDocker struct {
	containers []types.Container
	networks   map[string]*network.EndpointSettings
	options    types.ContainerListOptions
}

func (fd *fakeDocker) ContainerList(_ context.Context, options types.ContainerListOptions) ([]types.Container, error) {
	fd.options = options
	return fd.containers, nil
}

func (fd *fakeDocker) ContainerInspect(_ context.Context, id string) (types.ContainerJSON, error) {
	return types.ContainerJSON{
		ContainerJSONBase: &types.ContainerJSONBase{ID: id},
		NetworkSettings:   &types.NetworkSettings{Networks: fd.networks},
	}, nil
}

func TestContainerAddress(t *testing.T) {
	ctx := context.Background()

	t.Run("first network by name", func(t *testing.T) {
		cli := &fakeDocker{
			containers: []types.Container{{ID: "abc"}},
			networks: map[string]*network.EndpointSettings{
				"zeta": {IPAddress: "10.0.0.9"},
				"sail": {IPAddress: "172.18.0.5"},
			},
		}
		ip, err := internal.ContainerAddress(ctx, cli, "app", "laravel.test.proxy", "")
		require.NoError(t, err)
		assert.Equal(t, "172.18.0.5", ip)
		assert.True(t, cli.options.Filters.ExactMatch("label", internal.LabelService+"=laravel.test.proxy"))
		assert.True(t, cli.options.Filters.ExactMatch("label", internal.LabelProject+"=app"))
	})

	t.Run("explicit network", func(t *testing.T) {
		cli := &fakeDocker{
			containers: []types.Container{{ID: "abc"}},
			networks: map[string]*network.EndpointSettings{
				"zeta": {IPAddress: "10.0.0.9"},
				"sail": {IPAddress: "172.18.0.5"},
			},
		}
		ip, err := internal.ContainerAddress(ctx, cli, "", "laravel.test.proxy", "zeta")
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.9", ip)

		_, err = internal.ContainerAddress(ctx, cli, "", "laravel.test.proxy", "missing")
		assert.True(t, errors.Is(err, internal.ErrNoAddress))
	})

	t.Run("no container", func(t *testing.T) {
		_, err := internal.ContainerAddress(ctx, &fakeDocker{}, "", "laravel.test.proxy", "")
		assert.True(t, errors.Is(err, internal.ErrContainerNotFound))
	})
}
