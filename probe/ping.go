// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"errors"
	"time"

	"github.com/siemens/blockscan/ipv4"

	"github.com/go-ping/ping"
	"github.com/thediveo/lxkns/log"
)

// Pinger checks addresses for answering pings.
type Pinger struct {
	settings
}

// NewPinger returns a new Pinger. The new pinger defaults to pinging 3 times
// at intervals of 1s between each ping. The liveness threshold defaults to
// 50(%).
//
// The pinger can be configured during creation using several options:
//   - [WithCount]
//   - [WithInterval]
//   - [WithThresholdPercentage]
//   - [AsUnprivileged]
//   - [InNetworkNamespace]
func NewPinger(options ...Option) *Pinger {
	return &Pinger{settings: newSettings(options)}
}

// Probe returns true if the percentage of successfully received ping replies
// reaches the Pinger's threshold. Probing is aborted as soon as the
// specified context gets cancelled, the address then is considered to not
// be live.
func (p *Pinger) Probe(ctx context.Context, addr ipv4.Address) bool {
	err := p.execute(func() interface{} {
		// A quick and non-blocking check to see if the context has been
		// cancelled before we start our work...
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		pinger, err := ping.NewPinger(addr.String())
		if err != nil {
			return err
		}
		pinger.SetPrivileged(!p.unprivileged)
		pinger.Count = p.count
		pinger.Interval = p.interval
		// Always limit waiting for the last ping to get reflected (or not)!
		pinger.Timeout = time.Duration(int64(p.interval) * int64(p.count+2))
		// Monitor the context while the ping is running; the done channel
		// terminates the monitoring when the ping is over.
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				pinger.Stop()
			case <-done:
			}
		}()
		if err = pinger.Run(); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		stats := pinger.Statistics()
		required := (pinger.Count*int(p.thresholdPercentage) + 99) / 100 // rounded up
		if stats.PacketsRecv < required {
			return errors.New("no replies or too many losses")
		}
		return nil
	})
	if err != nil {
		log.Debugf("ping %s: %s", addr, err.Error())
		return false
	}
	return true
}
