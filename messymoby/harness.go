// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package messymoby

import (
	"context"
	"io"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
)

// TestImage is a small image sleeping happily ever after.
const TestImage = "busybox:latest"

// CreateTestNetwork creates a labelled bridge network with the specified
// IPv4 subnet, returning the network's ID.
func CreateTestNetwork(ctx context.Context, cln *client.Client, name string, subnet string) (string, error) {
	resp, err := cln.NetworkCreate(ctx, name, types.NetworkCreate{
		Driver: "bridge",
		IPAM: &network.IPAM{
			Config: []network.IPAMConfig{{Subnet: subnet}},
		},
		Labels: map[string]string{MessyMobyLabel: ""},
	})
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// StartTestContainer pulls the test image if necessary, and then creates and
// starts a labelled container attached to the specified network.
func StartTestContainer(ctx context.Context, cln *client.Client, name string, netname string) (string, error) {
	pull, err := cln.ImagePull(ctx, TestImage, types.ImagePullOptions{})
	if err != nil {
		return "", err
	}
	_, _ = io.Copy(io.Discard, pull)
	pull.Close()
	cntr, err := cln.ContainerCreate(ctx,
		&container.Config{
			Image:  TestImage,
			Cmd:    []string{"sleep", "3600"},
			Labels: map[string]string{MessyMobyLabel: ""},
		},
		&container.HostConfig{
			NetworkMode: container.NetworkMode(netname),
			AutoRemove:  true,
		},
		nil, nil, name)
	if err != nil {
		return "", err
	}
	if err := cln.ContainerStart(ctx, cntr.ID, types.ContainerStartOptions{}); err != nil {
		return "", err
	}
	return cntr.ID, nil
}

// RemoveTestContainers forcefully removes all containers, dead or alive,
// carrying the specified label name.
func RemoveTestContainers(ctx context.Context, cln *client.Client, labelname string) error {
	cntrs, err := cln.ContainerList(ctx, types.ContainerListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("label", labelname)),
	})
	if err != nil {
		return err
	}
	for _, cntr := range cntrs {
		_ = cln.ContainerRemove(ctx, cntr.ID, types.ContainerRemoveOptions{Force: true})
	}
	return nil
}

// RemoveTestNetworks removes all networks carrying the specified label name.
func RemoveTestNetworks(ctx context.Context, cln *client.Client, labelname string) error {
	nets, err := cln.NetworkList(ctx, types.NetworkListOptions{
		Filters: filters.NewArgs(filters.Arg("label", labelname)),
	})
	if err != nil {
		return err
	}
	for _, net := range nets {
		switch net.Name {
		case "bridge", "host", "none":
			continue
		}
		_ = cln.NetworkRemove(ctx, net.ID)
	}
	return nil
}
