// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
)

var _ = Describe("spinner", func() {

	It("spins and stops", func() {
		goodgos := Goroutines()
		s := newSpinner()
		Expect(s.Spinner()).To(Equal(spinnerPhases[0]))
		s.Start(10 * time.Millisecond)
		Eventually(s.Spinner).ShouldNot(Equal(spinnerPhases[0]))
		s.Stop()
		s.Stop()
		Eventually(Goroutines).ShouldNot(HaveLeaked(goodgos))
	})

})
