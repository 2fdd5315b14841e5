// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/siemens/blockscan/findings"
)

// renderer renders the terminal display, based on the scan status and hosts
// passed to its Render method.
type renderer struct {
	Indentation int
	w           io.Writer
	spinner     *spinner
}

// newRenderer returns a renderer rendering to the specified io.Writer, with
// its spinner spinning at the specified interval.
func newRenderer(w io.Writer, interval time.Duration) *renderer {
	sp := newSpinner()
	sp.Start(interval)
	return &renderer{
		w:       w,
		spinner: sp,
	}
}

// Stop the renderer's background ticker.
func (r *renderer) Stop() {
	r.spinner.Stop()
}

// Render the scan status and the hosts found so far. The final rendering
// adds a summary of the thread telemetry.
func (r *renderer) Render(st status, hosts []findings.Host, final bool) {
	r.renderStatus(st, final)
	// For neat display, determine the length of the longest address and
	// ports list, so that the names column doesn't zig-zag around.
	addrwidth, portswidth := 0, 0
	for _, host := range hosts {
		addrwidth = max(addrwidth, len(host.Address.String()))
		portswidth = max(portswidth, len(portsList(host.Ports)))
	}
	for _, host := range hosts {
		r.renderHost(addrwidth, portswidth, host)
	}
	if final {
		r.renderSummary(st, len(hosts))
	}
}

func (r *renderer) renderStatus(st status, final bool) {
	if st.Job == 0 {
		fmt.Fprintln(r.w, "preparing scan...")
		return
	}
	verb, spin := "scanning", r.spinner.Spinner()
	if final {
		verb, spin = "scanned", ""
	}
	fmt.Fprintf(r.w, "%s %s", verb, targetStyle.Styled(st.Label))
	if st.Jobs > 1 {
		fmt.Fprintf(r.w, " (%d/%d)", st.Job, st.Jobs)
	}
	fmt.Fprintf(r.w, " %sgenerated %d, accepted %d", spin, st.Generated, st.Accepted)
	if !final {
		fmt.Fprintf(r.w, ", queued %d/%d", st.QueueLen, st.QueueCap)
	}
	fmt.Fprintln(r.w)
}

// renderHost renders a single host with its open ports and names.
func (r *renderer) renderHost(addrwidth, portswidth int, host findings.Host) {
	fmt.Fprintf(r.w, "%-*s%s%s", r.Indentation, "",
		addressStyle.Styled(host.Address.String()),
		strings.Repeat(" ", addrwidth-len(host.Address.String())))
	if portswidth > 0 {
		fmt.Fprintf(r.w, "  %-*s", portswidth, portsList(host.Ports))
	}
	switch host.State {
	case findings.Resolving:
		fmt.Fprint(r.w, resolvingStyle.Styled("  "+r.spinner.Spinner()))
	case findings.Resolved:
		fmt.Fprint(r.w, resolvedStyle.Styled("  ✔ "+strings.Join(host.Names, " ")))
	case findings.Unresolvable:
		fmt.Fprint(r.w, unresolvableStyle.Styled("  × unresolvable"))
	}
	fmt.Fprintln(r.w)
}

// renderSummary renders the number of live hosts as well as the thread
// telemetry of the most recent scan job.
func (r *renderer) renderSummary(st status, hosts int) {
	fmt.Fprintf(r.w, "%d live host(s)\n", hosts)
	fmt.Fprintf(r.w, "threads: quickest %s, longest %s, average idle %s",
		st.Quickest.Round(time.Microsecond),
		st.Longest.Round(time.Microsecond),
		st.Average.Round(time.Microsecond))
	if len(st.Hanging) > 0 {
		fmt.Fprint(r.w, ", ", hangingStyle.Styled("hanging: "+strings.Join(st.Hanging, " ")))
	}
	fmt.Fprintln(r.w)
}

// portsList returns the space-separated list of ports.
func portsList(ports []int) string {
	s := make([]string, 0, len(ports))
	for _, port := range ports {
		s = append(s, strconv.Itoa(port))
	}
	return strings.Join(s, " ")
}
