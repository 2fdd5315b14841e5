// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dockernet

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/siemens/blockscan/ipv4"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/thediveo/lxkns/log"
)

// AttachedNetwork is a Docker network attached to a container, with the IPv4
// blocks of its subnets.
type AttachedNetwork struct {
	Name   string       // Docker network name.
	Blocks []ipv4.Block // IPv4 subnets of the network.
}

// DiscoverAttachedBlocks inspects the specified container and the networks
// it is attached to, returning the IPv4 blocks of these networks in network
// name order. Additionally, it returns a filesystem path referencing the
// container's network namespace.
//
// Networks without IPAM configuration fall back to the container's
// endpoint address and prefix length. Networks without any IPv4 subnet are
// skipped.
func DiscoverAttachedBlocks(ctx context.Context, moby *client.Client, container string) ([]AttachedNetwork, string, error) {
	details, err := moby.ContainerInspect(ctx, container)
	if err != nil {
		return nil, "", err
	}
	if details.State == nil || details.State.Pid == 0 {
		return nil, "", fmt.Errorf("container '%s' is not running", container)
	}
	name := strings.TrimPrefix(details.Name, "/")
	netnsref := fmt.Sprintf("/proc/%d/ns/net", details.State.Pid)

	var nets []AttachedNetwork
	if details.NetworkSettings != nil {
		for netName, endpoint := range details.NetworkSettings.Networks {
			netDetails, err := moby.NetworkInspect(ctx, endpoint.NetworkID, types.NetworkInspectOptions{})
			if err != nil {
				return nil, "", err
			}
			blocks := blocksOf(netDetails.IPAM, endpoint)
			if len(blocks) == 0 {
				log.Debugf("container %s: network %s has no IPv4 subnet", name, netName)
				continue
			}
			nets = append(nets, AttachedNetwork{Name: netName, Blocks: blocks})
		}
	}
	sort.Slice(nets, func(i, j int) bool { return nets[i].Name < nets[j].Name })
	log.Debugf("container %s: %d attached IPv4 network(s), netns %s", name, len(nets), netnsref)
	return nets, netnsref, nil
}

// blocksOf returns the IPv4 blocks of a network's IPAM configuration,
// falling back to the container endpoint's address and prefix length.
func blocksOf(ipam network.IPAM, endpoint *network.EndpointSettings) []ipv4.Block {
	var blocks []ipv4.Block
	for _, config := range ipam.Config {
		base, lenText, ok := strings.Cut(config.Subnet, "/")
		if !ok {
			continue
		}
		addr, err := ipv4.Parse(base)
		if err != nil {
			continue // IPv6
		}
		length, err := strconv.Atoi(lenText)
		if err != nil || length < 0 || length > 32 {
			continue
		}
		blocks = append(blocks, networkBlock(addr, length))
	}
	if len(blocks) > 0 || endpoint == nil || endpoint.IPAddress == "" {
		return blocks
	}
	addr, err := ipv4.Parse(endpoint.IPAddress)
	if err != nil {
		return nil
	}
	return []ipv4.Block{networkBlock(addr, endpoint.IPPrefixLen)}
}

// networkBlock returns the CIDR block of the specified prefix length that
// contains the specified address.
func networkBlock(addr ipv4.Address, length int) ipv4.Block {
	mask := ^uint32(0) << (32 - length)
	return ipv4.NewCIDRBlock(ipv4.FromUint32(addr.Decimal()&mask), length)
}
