// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import "github.com/muesli/termenv"

var (
	resolvingStyle    = termenv.Style{}.Foreground(termenv.ANSIYellow)
	resolvedStyle     = termenv.Style{}.Foreground(termenv.ANSIGreen)
	unresolvableStyle = termenv.Style{}.Foreground(termenv.ANSIRed)
	hangingStyle      = termenv.Style{}.Foreground(termenv.ANSIRed).Bold()
)

var (
	targetStyle  = termenv.Style{}.Bold()
	addressStyle = termenv.Style{}.Bold()
)
