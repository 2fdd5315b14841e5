// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dockernet

import (
	"context"
	"time"

	"github.com/siemens/blockscan/ipv4"
	"github.com/siemens/blockscan/messymoby"

	"github.com/docker/docker/api/types/network"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/success"
)

var _ = Describe("Docker networks", func() {

	DescribeTable("IPv4 blocks of networks",
		func(ipam network.IPAM, endpoint *network.EndpointSettings, expected []string) {
			blocks := blocksOf(ipam, endpoint)
			actual := make([]string, 0, len(blocks))
			for _, block := range blocks {
				actual = append(actual, block.String())
			}
			Expect(actual).To(Equal(expected))
		},
		Entry("IPAM subnets",
			network.IPAM{Config: []network.IPAMConfig{
				{Subnet: "172.18.0.0/16"},
				{Subnet: "fd00::/64"},
				{Subnet: "10.10.10.128/25"},
			}},
			&network.EndpointSettings{IPAddress: "172.18.0.2", IPPrefixLen: 16},
			[]string{"172.18.0.0/16", "10.10.10.128/25"}),
		Entry("unaligned IPAM subnet",
			network.IPAM{Config: []network.IPAMConfig{{Subnet: "192.168.1.77/24"}}},
			nil,
			[]string{"192.168.1.0/24"}),
		Entry("endpoint fallback",
			network.IPAM{},
			&network.EndpointSettings{IPAddress: "172.17.0.5", IPPrefixLen: 16},
			[]string{"172.17.0.0/16"}),
		Entry("nothing IPv4",
			network.IPAM{Config: []network.IPAMConfig{{Subnet: "fd00::/64"}}},
			&network.EndpointSettings{GlobalIPv6Address: "fd00::2"},
			[]string{}),
	)

	When("talking to Docker", func() {

		BeforeEach(func() {
			goodgos := Goroutines()
			DeferCleanup(func() {
				Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
					ShouldNot(HaveLeaked(IgnoringInBacktrace("net/http.(*persistConn)"), goodgos))
			})
		})

		It("rejects unknown containers", NodeTimeout(30*time.Second), func(ctx context.Context) {
			cln := messymoby.NewClient()
			defer cln.Close()
			if !messymoby.Available(ctx, cln) {
				Skip("needs Docker")
			}
			Expect(DiscoverAttachedBlocks(ctx, cln, "this-container-does-not-exist-really")).
				Error().To(HaveOccurred())
		})

		It("discovers the blocks of attached networks", NodeTimeout(120*time.Second), func(ctx context.Context) {
			cln := messymoby.NewClient()
			defer cln.Close()
			if !messymoby.Available(ctx, cln) {
				Skip("needs Docker")
			}
			messymoby.Cleanup(ctx, cln)
			DeferCleanup(func(ctx context.Context) { messymoby.Cleanup(ctx, cln) })

			Successful(messymoby.CreateTestNetwork(ctx, cln, "blockscan-test-net", "172.31.250.0/24"))
			Successful(messymoby.StartTestContainer(ctx, cln, "blockscan-test", "blockscan-test-net"))

			nets, netnsref := Successful2R(DiscoverAttachedBlocks(ctx, cln, "blockscan-test"))
			Expect(netnsref).To(MatchRegexp(`^/proc/\d+/ns/net$`))
			Expect(nets).To(ConsistOf(And(
				HaveField("Name", "blockscan-test-net"),
				HaveField("Blocks", ConsistOf(WithTransform(
					func(b ipv4.Block) string { return b.String() }, Equal("172.31.250.0/24")))),
			)))
		})

	})

})
