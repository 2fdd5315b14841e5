// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"fmt"
	"time"

	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

// DefaultTimeout is the default TCP connect timeout.
const DefaultTimeout = 300 * time.Millisecond

// settings are shared by all probe types; each probe only picks the
// settings relevant to it.
type settings struct {
	timeout             time.Duration      // TCP connect timeout.
	count               int                // number of pings to send.
	interval            time.Duration      // distance between pings.
	thresholdPercentage uint               // percentage of successful pings for a live address.
	unprivileged        bool               // if true, uses UDP-based pings instead of privileged ICMPs.
	netns               relations.Relation // network namespace to probe from, or nil.
}

func newSettings(options []Option) settings {
	s := settings{
		timeout:             DefaultTimeout,
		count:               3,
		interval:            time.Second,
		thresholdPercentage: 50,
	}
	for _, opt := range options {
		opt(&s)
	}
	return s
}

// Option can be passed to NewTCPProber and NewPinger.
type Option func(*settings)

// InNetworkNamespace optionally probes from inside the network namespace
// referenced by the specified filesystem path. An empty path keeps probing
// from the caller's network namespace.
func InNetworkNamespace(netnsref string) Option {
	return func(s *settings) {
		if netnsref == "" {
			s.netns = nil
			return
		}
		s.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// WithTimeout sets the TCP connect timeout. Non-positive durations are
// ignored.
func WithTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithCount sets the number of pings for testing reachability of an address.
func WithCount(count uint) Option {
	return func(s *settings) {
		s.count = int(count)
	}
}

// WithInterval sets the interval between consecutive pings.
func WithInterval(interval time.Duration) Option {
	return func(s *settings) {
		s.interval = interval
	}
}

// AsUnprivileged tells a Pinger to carry out unprivileged pings using UDP
// instead of ICMP packets.
func AsUnprivileged() Option {
	return func(s *settings) {
		s.unprivileged = true
	}
}

// WithThresholdPercentage takes a percentage between 0 and 100 that
// specifies the percentage of successful ping responses required in order to
// consider the pinged address to be live.
func WithThresholdPercentage(threshold uint) Option {
	if threshold > 100 {
		panic(fmt.Errorf("Pinger: threshold must be a percentage between 0 <= threshold <= 100, got: %d",
			threshold))
	}
	return func(s *settings) {
		s.thresholdPercentage = threshold
	}
}

// execute runs fn either directly or, if configured, inside the network
// namespace. fn reports its verdict as an error result, nil meaning live.
func (s *settings) execute(fn func() interface{}) error {
	var res interface{}
	if s.netns != nil {
		// lxkns' ops.Execute differentiates between a namespace switching
		// error and the under switched namespaces called function result.
		var err error
		res, err = ops.Execute(fn, s.netns)
		if err != nil {
			return err
		}
	} else {
		res = fn()
	}
	if err, ok := res.(error); ok {
		return err
	}
	return nil
}
