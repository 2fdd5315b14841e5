// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ipv4

import "errors"

// ErrFormat is returned (wrapped) whenever address, range, or CIDR text
// doesn't have the expected shape.
var ErrFormat = errors.New("invalid IPv4 format")
