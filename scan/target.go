// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scan

import (
	"fmt"
	"slices"
	"strings"

	"github.com/siemens/blockscan/ipv4"
)

// Target describes which addresses to scan and in which order.
type Target struct {
	method    Method
	start     ipv4.Address   // single and endless methods.
	block     ipv4.Block     // range method.
	addresses []ipv4.Address // multi method.
}

// Range returns a Target enumerating the addresses of a block in increasing
// order, starting with the block's first address and stopping when reaching
// its last address.
func Range(block ipv4.Block) Target {
	return Target{method: RangeAddress, block: block}
}

// Single returns a Target for exactly one address.
func Single(addr ipv4.Address) Target {
	return Target{method: SingleAddress, start: addr}
}

// Multi returns a Target enumerating the specified addresses in the order
// given.
func Multi(addrs ...ipv4.Address) Target {
	return Target{method: MultiAddress, addresses: slices.Clone(addrs)}
}

// MultiFromStrings returns a Target enumerating the addresses given in text
// form. Entries are trimmed first; blank entries and entries not looking
// like IPv4 addresses are skipped.
func MultiFromStrings(entries []string) Target {
	addrs := make([]ipv4.Address, 0, len(entries))
	for _, entry := range entries {
		addr, err := ipv4.Parse(strings.TrimSpace(entry))
		if err != nil {
			continue
		}
		addrs = append(addrs, addr)
	}
	return Target{method: MultiAddress, addresses: addrs}
}

// Endless returns a Target starting at the specified address and then
// enumerating upwards or downwards without end for the methods
// [EndlessIncrease] and [EndlessDecrease]. For [SingleAddress] the Target
// consists only of the start address. Other methods are rejected with an
// error wrapping [ErrConfiguration].
func Endless(start ipv4.Address, method Method) (Target, error) {
	switch method {
	case SingleAddress, EndlessIncrease, EndlessDecrease:
		return Target{method: method, start: start}, nil
	}
	return Target{}, fmt.Errorf("%w: method %s needs a start address", ErrConfiguration, method)
}

// ParseTargets returns the Target described by the specified textual target
// specifications:
//   - a single "x.x.x.x/len" (or "x.x.x.x\len") specifies a CIDR range,
//   - a single "x.x.x.x-y.y.y.y" specifies a range between two endpoints,
//     where the upper endpoint itself isn't enumerated,
//   - a single "x.x.x.x" specifies a single address,
//   - multiple "x.x.x.x" specify multiple addresses in the order given.
func ParseTargets(specs []string) (Target, error) {
	switch len(specs) {
	case 0:
		return Target{}, fmt.Errorf("%w: no target addresses", ErrConfiguration)
	case 1:
		spec := strings.TrimSpace(specs[0])
		switch {
		case strings.ContainsAny(spec, `/\`):
			block, err := ipv4.ParseCIDR(spec)
			if err != nil {
				return Target{}, err
			}
			return Range(block), nil
		case strings.Contains(spec, "-"):
			block, err := ipv4.ParseRange(spec)
			if err != nil {
				return Target{}, err
			}
			return Range(block), nil
		}
		addr, err := ipv4.Parse(spec)
		if err != nil {
			return Target{}, err
		}
		return Single(addr), nil
	}
	addrs := make([]ipv4.Address, 0, len(specs))
	for _, spec := range specs {
		addr, err := ipv4.Parse(strings.TrimSpace(spec))
		if err != nil {
			return Target{}, err
		}
		addrs = append(addrs, addr)
	}
	return Target{method: MultiAddress, addresses: addrs}, nil
}

// Method returns how the Target enumerates its addresses.
func (t Target) Method() Method { return t.method }

// String returns a short description of the Target.
func (t Target) String() string {
	switch t.method {
	case SingleAddress:
		return t.start.String()
	case MultiAddress:
		return fmt.Sprintf("%d addresses", len(t.addresses))
	case RangeAddress:
		return t.block.String()
	case EndlessIncrease:
		return t.start.String() + " upwards"
	case EndlessDecrease:
		return t.start.String() + " downwards"
	}
	return t.method.String()
}

// validate returns an error wrapping ErrConfiguration for unknown methods.
func (t Target) validate() error {
	switch t.method {
	case SingleAddress, MultiAddress, RangeAddress, EndlessIncrease, EndlessDecrease:
		return nil
	}
	return fmt.Errorf("%w: unknown scan method %s", ErrConfiguration, t.method)
}

// walk enumerates the Target's addresses, passing each address to emit.
// walk stops as soon as emit returns false.
func (t Target) walk(emit func(ipv4.Address) bool) error {
	switch t.method {
	case SingleAddress:
		emit(t.start)
	case RangeAddress:
		// The block's last address is the first address past the range
		// proper, so that a /30 yields exactly four addresses. Wrapping past
		// 255.255.255.255 ends the range.
		addr := t.block.First()
		last := t.block.Last().Decimal()
		for emit(addr) {
			addr = addr.Next()
			if addr.Decimal() == 0 || addr.Decimal() >= last {
				break
			}
		}
	case MultiAddress:
		for _, addr := range t.addresses {
			if !emit(addr) {
				break
			}
		}
	case EndlessIncrease, EndlessDecrease:
		step := ipv4.Address.Next
		if t.method == EndlessDecrease {
			step = ipv4.Address.Previous
		}
		for addr := t.start; emit(addr); addr = step(addr) {
		}
	default:
		return t.validate()
	}
	return nil
}
