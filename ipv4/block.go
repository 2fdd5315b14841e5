// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ipv4

import (
	"fmt"
	"math/bits"
	"regexp"
	"strconv"
	"strings"
)

var cidrPattern = regexp.MustCompile(`^((?:\d{1,3}\.){3}\d{1,3})[/\\](\d{1,2})$`)

// Block is an inclusive range of IPv4 addresses, with its first address never
// above its last address.
type Block struct {
	first Address
	last  Address
}

// NewBlock returns the Block spanning both addresses, which might be given in
// any order.
func NewBlock(a, b Address) Block {
	if a.decimal <= b.decimal {
		return Block{first: a, last: b}
	}
	return Block{first: b, last: a}
}

// NewCIDRBlock returns the Block starting at base with the specified prefix
// length. The length is taken modulo 33. The base address is not masked, so
// "10.0.0.100/30" starts at 10.0.0.100.
func NewCIDRBlock(base Address, length int) Block {
	length %= 33
	if length < 0 {
		length += 33
	}
	return NewBlock(base, base.Traverse(int64(1)<<(32-length)))
}

// ParseCIDR returns the Block for the specified CIDR text in the form
// "x.x.x.x/len", where the separator may also be a backslash. An error
// wrapping [ErrFormat] is returned for malformed text.
func ParseCIDR(s string) (Block, error) {
	m := cidrPattern.FindStringSubmatch(s)
	if m == nil {
		return Block{}, fmt.Errorf("%w: CIDR notation %q", ErrFormat, s)
	}
	base, err := Parse(m[1])
	if err != nil {
		return Block{}, err
	}
	length, _ := strconv.Atoi(m[2])
	return NewCIDRBlock(base, length), nil
}

// ParseRange returns the Block for the range text "x.x.x.x-y.y.y.y", with
// the endpoints in any order and optional blanks around them.
func ParseRange(s string) (Block, error) {
	a, b, ok := strings.Cut(s, "-")
	if !ok {
		return Block{}, fmt.Errorf("%w: range notation %q", ErrFormat, s)
	}
	first, err := Parse(strings.TrimSpace(a))
	if err != nil {
		return Block{}, err
	}
	last, err := Parse(strings.TrimSpace(b))
	if err != nil {
		return Block{}, err
	}
	return NewBlock(first, last), nil
}

// First returns the lowest address of the block.
func (b Block) First() Address { return b.first }

// Last returns the highest address of the block.
func (b Block) Last() Address { return b.last }

// Size returns the distance between the first and last address.
func (b Block) Size() uint32 { return b.last.decimal - b.first.decimal }

// IsCIDR returns true if the block's size is a positive power of two, so
// that it can be expressed in CIDR notation.
func (b Block) IsCIDR() bool {
	size := b.Size()
	return size > 0 && size&(size-1) == 0
}

// CIDRLength returns the prefix length of the block and true, or false if
// the block has no valid CIDR representation.
func (b Block) CIDRLength() (int, bool) {
	if !b.IsCIDR() {
		return 0, false
	}
	return 32 - bits.TrailingZeros32(b.Size()), true
}

// CIDRNotation returns the "x.x.x.x/len" notation of the block and true, or
// false if the block has no valid CIDR representation. The separator is
// always a forward slash.
func (b Block) CIDRNotation() (string, bool) {
	length, ok := b.CIDRLength()
	if !ok {
		return "", false
	}
	return b.first.String() + "/" + strconv.Itoa(length), true
}

// RangeNotation returns the "x.x.x.x-y.y.y.y" notation of the block.
func (b Block) RangeNotation() string {
	return b.first.String() + "-" + b.last.String()
}

// Contains returns true if the address lies within the block, including
// both endpoints.
func (b Block) Contains(a Address) bool {
	return a.decimal >= b.first.decimal && a.decimal <= b.last.decimal
}

// String returns the CIDR notation if available, otherwise the range
// notation.
func (b Block) String() string {
	if cidr, ok := b.CIDRNotation(); ok {
		return cidr
	}
	return b.RangeNotation()
}
