// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package findings

import (
	"context"
	"slices"
	"sync"

	"github.com/siemens/blockscan/ipv4"
)

// Host is a live address together with its open ports and names.
type Host struct {
	Address ipv4.Address `json:"address"`
	Ports   []int        `json:"ports,omitempty"` // in increasing order.
	Names   []string     `json:"names,omitempty"` // in order of discovery.
	State   State        `json:"state"`           // reverse resolution state.
	Err     error        `json:"-"`               // optional reason for Unresolvable.
}

// Update carries new information about a host: additional open ports,
// names, and possibly an advanced resolution State.
type Update struct {
	Address ipv4.Address
	Ports   []int
	Names   []string
	State   State
	Err     error
}

// Findings maps addresses to what has been found out about them so far.
type Findings struct {
	mu sync.Mutex
	m  map[ipv4.Address]*Host
}

// New returns a new and properly initialized Findings object.
func New() *Findings {
	return &Findings{
		m: map[ipv4.Address]*Host{},
	}
}

// Update merges the specified update and returns true if this is the first
// sighting of the address. Ports and names are deduplicated; the resolution
// state only advances, stale states are ignored.
func (f *Findings) Update(u Update) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	host, ok := f.m[u.Address]
	if !ok {
		host = &Host{Address: u.Address}
		f.m[u.Address] = host
	}
	for _, port := range u.Ports {
		if idx, found := slices.BinarySearch(host.Ports, port); !found {
			host.Ports = slices.Insert(host.Ports, idx, port)
		}
	}
	for _, name := range u.Names {
		if !slices.Contains(host.Names, name) {
			host.Names = append(host.Names, name)
		}
	}
	if u.State > host.State {
		host.State = u.State
		host.Err = u.Err
	}
	return !ok
}

// AddAddress records a live address, returning true on its first sighting.
func (f *Findings) AddAddress(addr ipv4.Address) bool {
	return f.Update(Update{Address: addr})
}

// AddPort records an open address:port pair, returning true on the first
// sighting of the address.
func (f *Findings) AddPort(ap ipv4.AddressPort) bool {
	return f.Update(Update{Address: ap.Address(), Ports: []int{ap.Port()}})
}

// Len returns the number of hosts found.
func (f *Findings) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.m)
}

// Get returns (copies of) all hosts found so far, in increasing address
// order.
func (f *Findings) Get() []Host {
	f.mu.Lock()
	defer f.mu.Unlock()
	hosts := make([]Host, 0, len(f.m))
	for _, host := range f.m {
		h := *host
		h.Ports = slices.Clone(host.Ports)
		h.Names = slices.Clone(host.Names)
		hosts = append(hosts, h)
	}
	slices.SortFunc(hosts, func(a, b Host) int {
		switch {
		case a.Address.Decimal() < b.Address.Decimal():
			return -1
		case a.Address.Decimal() > b.Address.Decimal():
			return 1
		}
		return 0
	})
	return hosts
}

// Track updates received from the specified channel until the channel is
// closed or the context done. Track only returns after processing all
// updates or when the context is done.
func (f *Findings) Track(ctx context.Context, news <-chan Update) error {
	for {
		select {
		case u, ok := <-news:
			if !ok {
				return nil
			}
			f.Update(u)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
