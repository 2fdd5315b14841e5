// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ipv4

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("address blocks", func() {

	first := MustParse("0.0.0.0")
	lastCIDR := first.Traverse(1 << 16)
	last := first.Traverse(100)

	It("orders its endpoints", func() {
		Expect(NewBlock(first, last)).To(Equal(NewBlock(last, first)))
		b := NewBlock(last, first)
		Expect(b.First()).To(Equal(first))
		Expect(b.Last()).To(Equal(last))
	})

	It("has no CIDR for a single address", func() {
		b := NewBlock(last, last)
		Expect(b.Size()).To(BeZero())
		Expect(b.IsCIDR()).To(BeFalse())
		_, ok := b.CIDRLength()
		Expect(ok).To(BeFalse())
		_, ok = b.CIDRNotation()
		Expect(ok).To(BeFalse())
	})

	It("has no CIDR for a range not sized a power of two", func() {
		b := NewBlock(first, last)
		Expect(b.IsCIDR()).To(BeFalse())
		Expect(b.Size()).To(Equal(uint32(100)))
		Expect(b.String()).To(Equal("0.0.0.0-0.0.0.100"))
	})

	It("derives the CIDR length from a range sized a power of two", func() {
		b := NewBlock(first, lastCIDR)
		Expect(b.IsCIDR()).To(BeTrue())
		l, ok := b.CIDRLength()
		Expect(ok).To(BeTrue())
		Expect(l).To(Equal(16))
		n, ok := b.CIDRNotation()
		Expect(ok).To(BeTrue())
		Expect(n).To(Equal("0.0.0.0/16"))
	})

	It("parses CIDR notation with a forward slash", func() {
		cidr := last.String() + "/16"
		b := Successful(ParseCIDR(cidr))
		Expect(b.IsCIDR()).To(BeTrue())
		n, ok := b.CIDRNotation()
		Expect(ok).To(BeTrue())
		Expect(n).To(Equal(cidr))
		Expect(b.First()).To(Equal(last))
	})

	It("parses CIDR notation with a backslash, but renders a forward slash", func() {
		cidr := last.String() + `\16`
		b := Successful(ParseCIDR(cidr))
		Expect(b.IsCIDR()).To(BeTrue())
		n, ok := b.CIDRNotation()
		Expect(ok).To(BeTrue())
		Expect(n).To(Equal(last.String() + "/16"))
	})

	It("takes the prefix length modulo 33", func() {
		Expect(Successful(ParseCIDR("10.0.0.0/63"))).To(Equal(Successful(ParseCIDR("10.0.0.0/30"))))
		Expect(NewCIDRBlock(MustParse("10.0.0.0"), -3)).To(Equal(NewCIDRBlock(MustParse("10.0.0.0"), 30)))
	})

	It("sizes a /30 with four addresses", func() {
		b := Successful(ParseCIDR("10.0.0.0/30"))
		Expect(b.Size()).To(Equal(uint32(4)))
		Expect(b.Last().String()).To(Equal("10.0.0.4"))
	})

	DescribeTable("rejects malformed CIDR text",
		func(text string) {
			_, err := ParseCIDR(text)
			Expect(err).To(MatchError(ErrFormat))
		},
		Entry("missing length", "10.0.0.0/"),
		Entry("three digit length", "10.0.0.0/100"),
		Entry("wrong separator", "10.0.0.0|8"),
		Entry("bad address", "10.0.0/8"),
	)

	It("parses range notation", func() {
		b := Successful(ParseRange("10.0.0.10 - 10.0.0.1"))
		Expect(b.RangeNotation()).To(Equal("10.0.0.1-10.0.0.10"))
		_, err := ParseRange("10.0.0.10")
		Expect(err).To(MatchError(ErrFormat))
		_, err = ParseRange("10.0.0.10-foo")
		Expect(err).To(MatchError(ErrFormat))
	})

	It("contains its endpoints", func() {
		b := NewBlock(MustParse("10.0.0.1"), MustParse("10.0.0.10"))
		Expect(b.Contains(MustParse("10.0.0.1"))).To(BeTrue())
		Expect(b.Contains(MustParse("10.0.0.5"))).To(BeTrue())
		Expect(b.Contains(MustParse("10.0.0.10"))).To(BeTrue())
		Expect(b.Contains(MustParse("10.0.0.0"))).To(BeFalse())
		Expect(b.Contains(MustParse("10.0.0.11"))).To(BeFalse())
	})

})
