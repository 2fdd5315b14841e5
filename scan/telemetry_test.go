// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scan

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fakeClock is advanced manually.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

var _ = Describe("telemetry", func() {

	var clock *fakeClock
	var tele *Telemetry

	BeforeEach(func() {
		clock = &fakeClock{t: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)}
		tele = newTelemetry()
		tele.now = clock.Now
	})

	It("is empty initially", func() {
		Expect(tele.Workers()).To(BeEmpty())
		Expect(tele.Quickest()).Error().To(BeFalse())
		Expect(tele.Longest()).Error().To(BeFalse())
		Expect(tele.Average()).To(BeZero())
		Expect(tele.Hanging(0)).To(BeEmpty())
	})

	It("needs two touches per worker to record intervals", func() {
		tele.Touch("a")
		tele.Touch("b")
		Expect(tele.Workers()).To(Equal([]string{"a", "b"}))
		_, ok := tele.Quickest()
		Expect(ok).To(BeFalse())

		clock.Advance(3 * time.Second)
		tele.Touch("a")
		clock.Advance(2 * time.Second)
		tele.Touch("a")
		clock.Advance(7 * time.Second)
		tele.Touch("b")

		quickest, ok := tele.Quickest()
		Expect(ok).To(BeTrue())
		Expect(quickest).To(Equal(2 * time.Second))
		longest, ok := tele.Longest()
		Expect(ok).To(BeTrue())
		Expect(longest).To(Equal(12 * time.Second))
	})

	It("averages and finds hanging workers", func() {
		tele.Touch("consumer-0")
		clock.Advance(4 * time.Second)
		tele.Touch("consumer-1")
		clock.Advance(2 * time.Second)
		tele.Touch("producer")

		// elapsed: consumer-0 6s, consumer-1 2s, producer 0s
		Expect(tele.Average()).To(Equal(8 * time.Second / 3))
		Expect(tele.Hanging(2 * time.Second)).To(Equal([]string{"consumer-0", "consumer-1"}))
		Expect(tele.Hanging(5 * time.Second)).To(Equal([]string{"consumer-0"}))
		Expect(tele.Hanging(time.Minute)).To(BeEmpty())
	})

})
