// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"context"
	"net"
	"os"
	"sync"
	"time"

	"github.com/miekg/dns"
	"github.com/siemens/blockscan/ipv4"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/namspill"
	. "github.com/thediveo/success"
)

// serveDNS starts an in-process DNS server on an ephemeral loopback UDP port,
// answering PTR queries for 10.0.0.1 only, and returns the server's address.
func serveDNS() string {
	GinkgoHelper()
	pc := Successful(net.ListenPacket("udp4", "127.0.0.1:0"))
	started := make(chan struct{})
	server := &dns.Server{
		PacketConn:        pc,
		NotifyStartedFunc: func() { close(started) },
		Handler: dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
			resp := new(dns.Msg)
			resp.SetReply(req)
			q := req.Question[0]
			if q.Qtype == dns.TypePTR && q.Name == "1.0.0.10.in-addr.arpa." {
				resp.Answer = append(resp.Answer, &dns.PTR{
					Hdr: dns.RR_Header{Name: q.Name, Rrtype: dns.TypePTR, Class: dns.ClassINET, Ttl: 60},
					Ptr: "gateway.example.",
				})
			} else {
				resp.SetRcode(req, dns.RcodeNameError)
			}
			_ = w.WriteMsg(resp)
		}),
	}
	go func() { _ = server.ActivateAndServe() }()
	Eventually(started).Should(BeClosed())
	DeferCleanup(func() { _ = server.Shutdown() })
	return pc.LocalAddr().String()
}

var _ = Describe("reverse DNS resolver", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
			Expect(Tasks()).To(BeUniformlyNamespaced())
		})
	})

	It("runs a limited set of DNS tasks", NodeTimeout(30*time.Second), func(ctx context.Context) {
		const poolsize = 3

		dnsclnt := dns.Client{Net: "udp"}
		// never contacted, any address will do for allocating connections.
		r := Successful(New(ctx, poolsize, &dnsclnt, "127.0.0.1:53"))

		dnsconns := map[*dns.Conn]int{}
		var mu sync.Mutex
		numtasks := poolsize * 2
		for i := 0; i < numtasks; i++ {
			r.Submit(func(conn *dns.Conn) {
				mu.Lock()
				defer mu.Unlock()
				dnsconns[conn]++
				time.Sleep(100 * time.Millisecond)
			})
		}
		r.StopWait()

		total := 0
		for _, count := range dnsconns {
			total += count
		}
		Expect(total).To(Equal(numtasks))
		Expect(len(dnsconns)).To(BeNumerically("<=", poolsize))
	})

	It("looks up names", NodeTimeout(30*time.Second), func(ctx context.Context) {
		addr := serveDNS()
		dnsclnt := dns.Client{Net: "udp", Timeout: 2 * time.Second}
		r := Successful(New(ctx, 1, &dnsclnt, addr))
		defer r.StopWait()

		ch := make(chan []string, 1)
		r.ReverseLookup(ctx, ipv4.MustParse("10.0.0.1"), func(names []string, err error) {
			defer GinkgoRecover()
			Expect(err).NotTo(HaveOccurred())
			ch <- names
		})
		Eventually(ch).Should(Receive(Equal([]string{"gateway.example"})))
	})

	It("reports unknown addresses", NodeTimeout(30*time.Second), func(ctx context.Context) {
		addr := serveDNS()
		dnsclnt := dns.Client{Net: "udp", Timeout: 2 * time.Second}
		r := Successful(New(ctx, 1, &dnsclnt, addr))
		defer r.StopWait()

		ch := make(chan error, 1)
		r.ReverseLookup(ctx, ipv4.MustParse("10.0.0.2"), func(names []string, err error) {
			ch <- err
		})
		Eventually(ch).Should(Receive(MatchError(ErrNoAnswer)))
	})

	It("doesn't look up with a cancelled context", NodeTimeout(30*time.Second), func(ctx context.Context) {
		dnsclnt := dns.Client{Net: "udp"}
		r := Successful(New(ctx, 1, &dnsclnt, "127.0.0.1:1"))
		defer r.StopWait()

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		ch := make(chan error, 1)
		r.ReverseLookup(cctx, ipv4.MustParse("10.0.0.1"), func(names []string, err error) {
			ch <- err
		})
		Eventually(ch).Should(Receive(MatchError(context.Canceled)))
	})

	It("dials from inside a network namespace", NodeTimeout(30*time.Second), func(ctx context.Context) {
		if os.Getuid() != 0 {
			Skip("needs root")
		}
		addr := serveDNS()
		dnsclnt := dns.Client{Net: "udp", Timeout: 2 * time.Second}
		r := Successful(New(ctx, 1, &dnsclnt, addr, InNetworkNamespace("/proc/self/ns/net")))
		defer r.StopWait()

		ch := make(chan []string, 1)
		r.ReverseLookup(ctx, ipv4.MustParse("10.0.0.1"), func(names []string, err error) {
			ch <- names
		})
		Eventually(ch).Should(Receive(ContainElement("gateway.example")))
	})

	It("fails to dial in a non-existing network namespace", func(ctx context.Context) {
		dnsclnt := dns.Client{Net: "udp"}
		Expect(New(ctx, 1, &dnsclnt, "127.0.0.1:53", InNetworkNamespace("/proc/0/ns/net"))).
			Error().To(HaveOccurred())
	})

})
