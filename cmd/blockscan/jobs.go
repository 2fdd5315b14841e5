// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"

	"github.com/siemens/blockscan/dockernet"
	"github.com/siemens/blockscan/ipv4"
	"github.com/siemens/blockscan/scan"

	"github.com/docker/docker/client"
)

// job is a single scan target, labelled for display.
type job struct {
	label  string
	target scan.Target
}

// planJobs returns the scan jobs for the specified target arguments, or for
// the networks attached to the configured container. In the latter case,
// planJobs additionally returns a reference to the container's network
// namespace.
func planJobs(ctx context.Context, cfg settings, args []string) ([]job, string, error) {
	if cfg.Container != "" {
		return containerJobs(ctx, cfg.Container)
	}
	if cfg.Endless != "" {
		if len(args) != 1 {
			return nil, "", fmt.Errorf("--%s needs exactly one start address", cfgEndless)
		}
		start, err := ipv4.Parse(args[0])
		if err != nil {
			return nil, "", err
		}
		method := scan.EndlessIncrease
		if cfg.Endless == "down" {
			method = scan.EndlessDecrease
		}
		target, err := scan.Endless(start, method)
		if err != nil {
			return nil, "", err
		}
		return []job{{label: target.String(), target: target}}, "", nil
	}
	target, err := scan.ParseTargets(args)
	if err != nil {
		return nil, "", err
	}
	return []job{{label: target.String(), target: target}}, "", nil
}

// containerJobs returns a scan job for each IPv4 block of each network
// attached to the specified container.
func containerJobs(ctx context.Context, container string) ([]job, string, error) {
	cln, err := client.NewClientWithOpts(
		client.WithHost("unix:///var/run/docker.sock"),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("cannot connect to the Docker daemon: %w", err)
	}
	defer cln.Close()
	nets, netnsref, err := dockernet.DiscoverAttachedBlocks(ctx, cln, container)
	if err != nil {
		return nil, "", fmt.Errorf("cannot discover attached networks: %w", err)
	}
	var jobs []job
	for _, net := range nets {
		for _, block := range net.Blocks {
			jobs = append(jobs, job{
				label:  fmt.Sprintf("network %s %s", net.Name, block),
				target: scan.Range(block),
			})
		}
	}
	if len(jobs) == 0 {
		return nil, "", fmt.Errorf("container %s has no attached IPv4 networks", container)
	}
	return jobs, netnsref, nil
}
