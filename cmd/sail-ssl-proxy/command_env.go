package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/reddec/sail-ssl-proxy/internal"
	"go.uber.org/zap"
)

const proxyIPVariable = "FILHOCODES_LARAVEL_SAIL_SSL_PROXY_SERVER_IP"

type CommandEnv struct {
	Service        string        `long:"service" short:"s" env:"SSL_PROXY_SERVICE" description:"Name of the Laravel service in the Docker Compose file" default:"laravel.test"`
	Project        string        `long:"project" short:"p" env:"SSL_PROXY_PROJECT" description:"Laravel project directory" default:"."`
	ComposeProject string        `long:"compose-project" env:"COMPOSE_PROJECT_NAME" description:"Docker Compose project name, any project if not set"`
	Network        string        `long:"network" short:"n" env:"SSL_PROXY_NETWORK" description:"Network of the proxy container, first one if not set"`
	Watch          time.Duration `long:"watch" short:"w" env:"SSL_PROXY_WATCH" description:"Keep the address up to date with the given interval"`
}

func (cmd *CommandEnv) Execute([]string) error {
	logger := newLogger()
	defer logger.Sync() //nolint:errcheck

	cli, err := internal.NewDockerClient()
	if err != nil {
		return err
	}
	defer cli.Close()

	ctx := internal.WithLogger(global, logger)
	envFile := filepath.Join(cmd.Project, internal.DotEnv)
	service := internal.ProxyServiceName(cmd.Service)

	update := func(ctx context.Context) error {
		address, err := internal.ContainerAddress(ctx, cli, cmd.ComposeProject, service, cmd.Network)
		if err != nil {
			return fmt.Errorf("locate %s: %w", service, err)
		}
		prev, err := internal.UpsertEnvFile(envFile, proxyIPVariable, address)
		if err != nil {
			return err
		}
		if prev != address {
			logger.Info("proxy address updated", zap.String("file", envFile), zap.String("previous", prev), zap.String("address", address))
			fmt.Printf("%s=%s\n", proxyIPVariable, address)
		}
		return nil
	}

	if cmd.Watch <= 0 {
		return update(ctx)
	}

	task := internal.Timer(ctx, cmd.Watch, update)
	<-task.Done()
	return nil
}
