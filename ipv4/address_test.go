// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ipv4

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("IPv4 addresses", func() {

	DescribeTable("parses canonical addresses",
		func(text string, decimal uint32) {
			addr := Successful(Parse(text))
			Expect(addr.String()).To(Equal(text))
			Expect(addr.Decimal()).To(Equal(decimal))
		},
		Entry("zero", "0.0.0.0", uint32(0)),
		Entry("low", "0.0.0.100", uint32(100)),
		Entry("private", "192.168.1.10", uint32(0xc0a8010a)),
		Entry("broadcast", "255.255.255.255", uint32(0xffffffff)),
	)

	DescribeTable("normalizes overflowing segments",
		func(text string, canonical string) {
			addr := Successful(Parse(text))
			Expect(addr.String()).To(Equal(canonical))
			Expect(addr.String()).NotTo(Equal(text))
			// canonicalization is idempotent.
			again := Successful(Parse(addr.String()))
			Expect(again).To(Equal(addr))
		},
		Entry("carry into third segment", "10.0.0.256", "10.0.1.0"),
		Entry("all segments overflowing", "256.256.256.256", "1.1.1.0"),
		Entry("triple nines", "10.999.999.999", "13.234.234.231"),
	)

	DescribeTable("rejects malformed text",
		func(text string) {
			_, err := Parse(text)
			Expect(err).To(MatchError(ErrFormat))
			Expect(MatchesPattern(text)).To(BeFalse())
		},
		Entry("four digit segment", "10.1234.123.123"),
		Entry("prose", "Hello World"),
		Entry("three segments", "10.0.0"),
		Entry("trailing dot", "10.0.0.1."),
		Entry("empty", ""),
	)

	It("panics on malformed constants", func() {
		Expect(func() { MustParse("foo") }).To(Panic())
		Expect(MustParse("1.2.3.4").String()).To(Equal("1.2.3.4"))
	})

	DescribeTable("wraps decimals modulo 2^32",
		func(decimal int64, text string) {
			addr := FromDecimal(decimal)
			Expect(addr.String()).To(Equal(text))
			Expect(addr).To(Equal(FromDecimal(decimal % (1 << 32))))
		},
		Entry("zero", int64(0), "0.0.0.0"),
		Entry("255", int64(255), "0.0.0.255"),
		Entry("max int32", int64(1<<31-1), "127.255.255.255"),
		Entry("max uint32", int64(1<<32-1), "255.255.255.255"),
		Entry("2^32", int64(1<<32), "0.0.0.0"),
		Entry("2^32+1", int64(1<<32+1), "0.0.0.1"),
	)

	It("wraps negative decimals from the top", func() {
		Expect(FromDecimal(-1).String()).To(Equal("255.255.255.255"))
		Expect(FromDecimal(-(1 << 32)).String()).To(Equal("0.0.0.0"))
	})

	It("round-trips a range of decimals", func() {
		for decimal := uint32(0); decimal < 1<<10; decimal++ {
			addr := FromUint32(decimal)
			Expect(addr.Decimal()).To(Equal(decimal))
			Expect(Successful(Parse(addr.String())).Decimal()).To(Equal(decimal))
		}
	})

	It("traverses in both directions", func() {
		addr := MustParse("10.0.0.255")
		Expect(addr.Next().String()).To(Equal("10.0.1.0"))
		Expect(addr.Next().Previous()).To(Equal(addr))
		Expect(addr.Traverse(-256).String()).To(Equal("9.255.255.255"))
		Expect(MustParse("255.255.255.255").Next().String()).To(Equal("0.0.0.0"))
		Expect(MustParse("0.0.0.0").Previous().String()).To(Equal("255.255.255.255"))
	})

	It("converts into a netip address", func() {
		Expect(MustParse("127.0.0.1").Addr().String()).To(Equal("127.0.0.1"))
	})

})
