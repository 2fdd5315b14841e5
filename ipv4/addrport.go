// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ipv4

import (
	"net/netip"
	"strconv"
)

// portSpace is the number of distinct TCP/UDP ports.
const portSpace = 65536

// AddressPort is an IPv4 address together with a port number in the range
// [0..65535].
type AddressPort struct {
	addr Address
	port uint16
}

// NewAddressPort returns a new AddressPort. Any port number is accepted and
// folded into the port range by wrapping it modulo 65536, the same way
// addresses wrap: -1 becomes 65535 and 65536 becomes 0.
func NewAddressPort(addr Address, port int) AddressPort {
	port %= portSpace
	if port < 0 {
		port += portSpace
	}
	return AddressPort{addr: addr, port: uint16(port)}
}

// ParseAddressPort returns a new AddressPort for the dotted decimal address
// text and port. See [Parse] for how address text gets interpreted.
func ParseAddressPort(addr string, port int) (AddressPort, error) {
	a, err := Parse(addr)
	if err != nil {
		return AddressPort{}, err
	}
	return NewAddressPort(a, port), nil
}

// Address returns the address part.
func (ap AddressPort) Address() Address { return ap.addr }

// Port returns the normalized port.
func (ap AddressPort) Port() int { return int(ap.port) }

// AddrPort returns the address and port as a [netip.AddrPort].
func (ap AddressPort) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(ap.addr.Addr(), ap.port)
}

// String returns the canonical "x.x.x.x:port" representation.
func (ap AddressPort) String() string {
	return ap.addr.String() + ":" + strconv.Itoa(int(ap.port))
}
