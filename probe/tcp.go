// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"net"
	"time"

	"github.com/siemens/blockscan/ipv4"

	"github.com/thediveo/lxkns/log"
)

// TCPProber checks address:port targets for accepting TCP connections.
type TCPProber struct {
	settings
}

// NewTCPProber returns a new TCPProber, defaulting to a connect timeout of
// [DefaultTimeout]. Use [WithTimeout] and [InNetworkNamespace] to configure
// it.
func NewTCPProber(options ...Option) *TCPProber {
	return &TCPProber{settings: newSettings(options)}
}

// Timeout returns the connect timeout.
func (p *TCPProber) Timeout() time.Duration { return p.timeout }

// Probe returns true if the target accepted a TCP connection within the
// prober's timeout. The connection gets closed immediately. Refused
// connections, timeouts, and cancelled contexts all simply yield false.
func (p *TCPProber) Probe(ctx context.Context, target ipv4.AddressPort) bool {
	err := p.execute(func() interface{} {
		dialctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		var dialer net.Dialer
		conn, err := dialer.DialContext(dialctx, "tcp4", target.AddrPort().String())
		if err != nil {
			return err
		}
		_ = conn.Close()
		return nil
	})
	if err != nil {
		log.Debugf("tcp probe %s: %s", target, err.Error())
		return false
	}
	return true
}
