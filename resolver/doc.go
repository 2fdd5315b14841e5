/*
Package resolver implements a size-limited pool of DNS client connections for
reverse (PTR) lookups of scan hits, optionally from inside a different network
namespace.

Usage

	dnsclnt := dns.Client{Net: "udp"}
	r, err := resolver.New(ctx, 4, &dnsclnt, "127.0.0.53:53")
	if err != nil {
	    // ...
	}
	defer r.StopWait()
	r.ReverseLookup(ctx, ipv4.MustParse("10.0.0.1"),
	    func(names []string, err error) {
	        // do something with names, unless there's an error reported
	    })

# Acknowledgements

Under its hood, [Resolver] leverages [github.com/gammazero/workerpool] as the
limiting goroutine pool and [github.com/miekg/dns] for talking DNS.

[github.com/gammazero/workerpool]: https://github.com/gammazero/workerpool
[github.com/miekg/dns]: https://github.com/miekg/dns
*/
package resolver
