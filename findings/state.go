// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package findings

import "fmt"

// State of the reverse name resolution of a host. States only ever advance
// in the order listed.
type State int

const (
	Unresolved   State = iota // no reverse lookup requested.
	Resolving                 // reverse lookup in progress.
	Unresolvable              // reverse lookup failed or without answer.
	Resolved                  // reverse lookup successful.
)

// String returns the clear-text representation of a State value.
func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolving:
		return "resolving"
	case Unresolvable:
		return "unresolvable"
	case Resolved:
		return "resolved"
	}
	return fmt.Sprintf("State(%d)", s)
}

// IsPending returns true while the final resolution verdict is still
// outstanding.
func (s State) IsPending() bool {
	return s == Resolving
}
