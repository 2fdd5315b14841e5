// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scan

import (
	"slices"
	"time"

	"github.com/siemens/blockscan/ipv4"
	"github.com/siemens/blockscan/probe"
)

// MaxQueueSizeMultiplier limits the queue size to this many items per
// consumer thread.
const MaxQueueSizeMultiplier = 16

// settings collects the configuration of both engine flavors; each flavor
// only picks what is relevant to it.
type settings struct {
	threads         int
	ports           []int
	checkPortOpen   bool
	checkTimeout    time.Duration
	netnsref        string
	pinger          *probe.Pinger
	portProgress    func(ipv4.AddressPort)
	addressProgress func(ipv4.Address)
}

func newSettings(options []Option) settings {
	s := settings{
		threads:       1,
		checkPortOpen: true,
		checkTimeout:  probe.DefaultTimeout,
	}
	for _, opt := range options {
		opt(&s)
	}
	return s
}

// Option can be passed to NewBlockScan and NewBlockPortScan.
type Option func(*settings)

// WithThreads sets the number of consumer threads, taking the absolute value
// of the specified number. There's always at least one consumer thread.
func WithThreads(threads int) Option {
	return func(s *settings) {
		if threads < 0 {
			threads = -threads
		}
		if threads == 0 {
			threads = 1
		}
		s.threads = threads
	}
}

// WithPorts sets the ports to scan for each address, in the order given.
// Only used by NewBlockPortScan, which requires at least one port.
func WithPorts(ports ...int) Option {
	return func(s *settings) {
		s.ports = slices.Clone(ports)
	}
}

// WithPortCheck enables or disables checking ports for accepting TCP
// connections; it is enabled by default. When disabled, all generated
// address:port pairs are passed to the consuming callback. Only used by
// NewBlockPortScan.
func WithPortCheck(enabled bool) Option {
	return func(s *settings) {
		s.checkPortOpen = enabled
	}
}

// WithCheckTimeout sets the TCP connect timeout when checking ports, and
// defaults to 300ms. Only used by NewBlockPortScan.
func WithCheckTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		if timeout > 0 {
			s.checkTimeout = timeout
		}
	}
}

// InNetworkNamespace checks ports from inside the network namespace
// referenced by the specified filesystem path. Only used by
// NewBlockPortScan.
func InNetworkNamespace(netnsref string) Option {
	return func(s *settings) {
		s.netnsref = netnsref
	}
}

// WithPinger checks addresses for liveness using the specified Pinger, so
// that only addresses answering pings are passed to the consuming callback.
// Only used by NewBlockScan, which otherwise passes all addresses.
func WithPinger(pinger *probe.Pinger) Option {
	return func(s *settings) {
		s.pinger = pinger
	}
}

// WithProgress sets a callback that gets called for every address:port pair
// a consumer picks up, before checking it. Only used by NewBlockPortScan.
func WithProgress(fn func(ipv4.AddressPort)) Option {
	return func(s *settings) {
		s.portProgress = fn
	}
}

// WithAddressProgress sets a callback that gets called for every address a
// consumer picks up, before checking it. Only used by NewBlockScan.
func WithAddressProgress(fn func(ipv4.Address)) Option {
	return func(s *settings) {
		s.addressProgress = fn
	}
}
