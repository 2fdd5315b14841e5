// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scan

import (
	"fmt"

	"github.com/siemens/blockscan/ipv4"
	"github.com/siemens/blockscan/probe"
)

// BlockScan scans addresses.
type BlockScan = Engine[ipv4.Address]

// BlockPortScan scans address:port pairs.
type BlockPortScan = Engine[ipv4.AddressPort]

// NewBlockScan returns a new engine scanning the addresses of the specified
// target, passing them to the consume callback. Unless configured using
// [WithPinger], all addresses are passed on without any liveness check.
//
// The scan can be configured using these options:
//   - [WithThreads]
//   - [WithPinger]
//   - [WithAddressProgress]
func NewBlockScan(target Target, consume func(ipv4.Address), options ...Option) *BlockScan {
	s := newSettings(options)
	e := newEngine(target, s.threads, consume)
	e.expand = func(addr ipv4.Address, emit func(ipv4.Address) bool) bool {
		return emit(addr)
	}
	if s.pinger != nil {
		e.accept = s.pinger.Probe
	}
	e.progress = s.addressProgress
	return e
}

// NewBlockPortScan returns a new engine scanning the configured ports on the
// addresses of the specified target. By default, each address:port pair is
// checked for accepting TCP connections and only passed to the consume
// callback if it does.
//
// The scan can be configured using these options:
//   - [WithPorts] (required)
//   - [WithThreads]
//   - [WithPortCheck]
//   - [WithCheckTimeout]
//   - [InNetworkNamespace]
//   - [WithProgress]
func NewBlockPortScan(target Target, consume func(ipv4.AddressPort), options ...Option) *BlockPortScan {
	s := newSettings(options)
	e := newEngine(target, s.threads, consume)
	ports := s.ports
	e.expand = func(addr ipv4.Address, emit func(ipv4.AddressPort) bool) bool {
		for _, port := range ports {
			if !emit(ipv4.NewAddressPort(addr, port)) {
				return false
			}
		}
		return true
	}
	e.validate = func() error {
		if len(ports) == 0 {
			return fmt.Errorf("%w: ports list should not be empty", ErrConfiguration)
		}
		return nil
	}
	if s.checkPortOpen {
		prober := probe.NewTCPProber(
			probe.WithTimeout(s.checkTimeout),
			probe.InNetworkNamespace(s.netnsref))
		e.accept = prober.Probe
	}
	e.progress = s.portProgress
	return e
}
