/*
Package ipv4 defines blockscan's address information model: single IPv4
addresses ([Address]), inclusive address ranges ([Block]) in both range and
CIDR notation, as well as address-port pairs ([AddressPort]).

All types are immutable values: they are safe to copy and to pass around
between concurrent producers and consumers through channels without any
locking.

# Lenient Address Text

[Parse] only checks that a text has the shape of four dot-separated groups of
one to three decimal digits. It does not check segment ranges. Instead,
segments are folded into a single 32 bit decimal value, so that overflowing
segments carry over into the next higher segment and the whole value wraps
modulo 2³². The canonical text representation is always derived from the
decimal value, never the other way round:

	10.0.0.256 → 10.0.1.0

# Blocks

A [Block] is built from two endpoints in any order, from a base address and a
prefix length, or from CIDR text using either “/” or “\” as separator. The
last address of a CIDR block is the base address plus 2^(32-length), so the
block's size is exactly that distance. A block only has a CIDR prefix length
if its size is a positive power of two.
*/
package ipv4
