// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scan

import "fmt"

// Method tells how the addresses of a Target are enumerated.
type Method int

// The enumeration methods; the zero value is deliberately invalid.
const (
	SingleAddress   Method = iota + 1 // one fixed address.
	MultiAddress                      // explicit list of addresses.
	RangeAddress                      // addresses of a block.
	EndlessIncrease                   // upwards from a start address, until shut down.
	EndlessDecrease                   // downwards from a start address, until shut down.
)

// String returns the clear-text representation of a Method value.
func (m Method) String() string {
	switch m {
	case SingleAddress:
		return "single"
	case MultiAddress:
		return "multi"
	case RangeAddress:
		return "range"
	case EndlessIncrease:
		return "endless-increase"
	case EndlessDecrease:
		return "endless-decrease"
	}
	return fmt.Sprintf("Method(%d)", m)
}

// IsEndless returns true for methods without natural termination.
func (m Method) IsEndless() bool {
	return m == EndlessIncrease || m == EndlessDecrease
}
