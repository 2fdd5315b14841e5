// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"os"
	"time"

	"github.com/siemens/blockscan/ipv4"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
)

var _ = Describe("pinger", func() {

	BeforeEach(func() {
		if os.Getuid() != 0 {
			Skip("needs root")
		}
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	It("rejects invalid thresholds", func() {
		Expect(func() { WithThresholdPercentage(101) }).To(Panic())
	})

	It("pings the loopback address", NodeTimeout(30*time.Second), func(ctx context.Context) {
		p := NewPinger(WithCount(1), WithInterval(250*time.Millisecond))
		Expect(p.Probe(ctx, ipv4.MustParse("127.0.0.1"))).To(BeTrue())
	})

	It("cancels pinging", NodeTimeout(30*time.Second), func(ctx context.Context) {
		p := NewPinger(WithCount(1))
		ctx, cancel := context.WithCancel(ctx)
		cancel()
		Expect(p.Probe(ctx, ipv4.MustParse("127.0.0.1"))).To(BeFalse())
	})

})
