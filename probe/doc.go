/*
Package probe implements liveness checks for scan targets.

A [TCPProber] checks that an address:port accepts TCP connections within a
timeout; it is a bare connection attempt without any payload exchanged. A
[Pinger] checks that an address answers ICMP(v4) echo requests, using
[go-ping/ping].

	                  +------------+
	address:port ---->| TCPProber  |--> live?
	                  +------------+
	                  +------------+
	address --------->|   Pinger   |--> live?
	                  +------------+

Both probes treat failures as a normal “not live” outcome rather than as an
error; the reason is only logged at debug level.

To probe from a network namespace different to that of the caller specify the
[InNetworkNamespace] option, passing it a filesystem path that references a
network namespace (such as "/proc/666/ns/net"). The probe then gets carried
out on an OS-level thread temporarily switched into that network namespace,
using [lxkns/ops].

[go-ping/ping]: https://github.com/go-ping/ping
[lxkns/ops]: https://github.com/thediveo/lxkns
*/
package probe
