// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scan

import "errors"

// ErrConfiguration is returned (wrapped) when an engine or target has been
// misconfigured, such as missing a consuming callback or ports to scan.
var ErrConfiguration = errors.New("invalid scan configuration")
