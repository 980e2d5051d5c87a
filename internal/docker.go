package internal

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
)

const (
	LabelProject = "com.docker.compose.project"
	LabelService = "com.docker.compose.service"
)

var (
	ErrContainerNotFound = errors.New("container not found")
	ErrNoAddress         = errors.New("container has no network address")
)

// ContainerAPI is the part of docker client used to locate compose containers.
type ContainerAPI interface {
	ContainerList(ctx context.Context, options types.ContainerListOptions) ([]types.Container, error)
	ContainerInspect(ctx context.Context, container string) (types.ContainerJSON, error)
}

func NewDockerClient() (*client.Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	return cli, nil
}

// ContainerAddress finds running container of compose service and returns its IP.
// Project narrows search to one compose project (optional).
// If network is empty, address from the first network (by name) is returned.
func ContainerAddress(ctx context.Context, cli ContainerAPI, project, service, network string) (string, error) {
	args := filters.NewArgs(filters.Arg("label", LabelService+"="+service))
	if project != "" {
		args.Add("label", LabelProject+"="+project)
	}

	list, err := cli.ContainerList(ctx, types.ContainerListOptions{
		Filters: args,
	})
	if err != nil {
		return "", fmt.Errorf("list containers: %w", err)
	}
	if len(list) == 0 {
		return "", fmt.Errorf("service %s: %w", service, ErrContainerNotFound)
	}

	info, err := cli.ContainerInspect(ctx, list[0].ID)
	if err != nil {
		return "", fmt.Errorf("inspect container %s: %w", list[0].ID, err)
	}
	if info.NetworkSettings == nil || len(info.NetworkSettings.Networks) == 0 {
		return "", fmt.Errorf("container %s: %w", list[0].ID, ErrNoAddress)
	}

	if network != "" {
		netInfo, ok := info.NetworkSettings.Networks[network]
		if !ok || netInfo == nil || netInfo.IPAddress == "" {
			return "", fmt.Errorf("container %s in network %s: %w", list[0].ID, network, ErrNoAddress)
		}
		return netInfo.IPAddress, nil
	}

	names := make([]string, 0, len(info.NetworkSettings.Networks))
	for name := range info.NetworkSettings.Networks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if netInfo := info.NetworkSettings.Networks[name]; netInfo != nil && netInfo.IPAddress != "" {
			return netInfo.IPAddress, nil
		}
	}

	return "", fmt.Errorf("container %s: %w", list[0].ID, ErrNoAddress)
}
