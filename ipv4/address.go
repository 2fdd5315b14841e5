// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ipv4

import (
	"fmt"
	"net/netip"
	"regexp"
	"strconv"
	"strings"
)

// addressSpace is the number of distinct IPv4 addresses, 2³².
const addressSpace = int64(1) << 32

var addressPattern = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)

// Address is an IPv4 address, stored as its 32 bit decimal value.
type Address struct {
	decimal uint32
}

// MatchesPattern returns true if s looks like a four-segment dotted decimal
// IPv4 address. Segment values are not range checked.
func MatchesPattern(s string) bool {
	return addressPattern.MatchString(s)
}

// Parse returns the Address for the specified dotted decimal text. Segments
// exceeding 255 overflow into the next higher segment, and the result wraps
// modulo 2³². An error wrapping [ErrFormat] is returned if the text doesn't
// follow the x.x.x.x pattern.
func Parse(s string) (Address, error) {
	if !MatchesPattern(s) {
		return Address{}, fmt.Errorf("%w: address %q", ErrFormat, s)
	}
	var decimal int64
	for _, segment := range strings.Split(s, ".") {
		value, _ := strconv.ParseInt(segment, 10, 64) // cannot fail after pattern match.
		decimal = decimal*256 + value
	}
	return FromDecimal(decimal), nil
}

// MustParse is like Parse but panics on malformed text. It is intended for
// well-known constants and tests.
func MustParse(s string) Address {
	addr, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// FromDecimal returns the Address for any decimal number, wrapping it modulo
// 2³² into the IPv4 address space; negative numbers wrap around from the top.
func FromDecimal(decimal int64) Address {
	decimal %= addressSpace
	if decimal < 0 {
		decimal += addressSpace
	}
	return Address{decimal: uint32(decimal)}
}

// FromUint32 returns the Address with the specified decimal value.
func FromUint32(decimal uint32) Address {
	return Address{decimal: decimal}
}

// Decimal returns the 32 bit decimal value of this address.
func (a Address) Decimal() uint32 { return a.decimal }

// String returns the canonical dotted decimal representation.
func (a Address) String() string {
	return strconv.Itoa(int(a.decimal>>24)) + "." +
		strconv.Itoa(int(a.decimal>>16&0xff)) + "." +
		strconv.Itoa(int(a.decimal>>8&0xff)) + "." +
		strconv.Itoa(int(a.decimal&0xff))
}

// Addr returns the address as a [netip.Addr], as needed when dialing.
func (a Address) Addr() netip.Addr {
	return netip.AddrFrom4([4]byte{
		byte(a.decimal >> 24), byte(a.decimal >> 16), byte(a.decimal >> 8), byte(a.decimal),
	})
}

// Traverse returns the address distance addresses away, wrapping around at
// either end of the address space. The distance may be negative.
func (a Address) Traverse(distance int64) Address {
	return FromDecimal(int64(a.decimal) + distance)
}

// Next returns the following address; 255.255.255.255 wraps to 0.0.0.0.
func (a Address) Next() Address { return a.Traverse(1) }

// Previous returns the preceding address; 0.0.0.0 wraps to 255.255.255.255.
func (a Address) Previous() Address { return a.Traverse(-1) }
