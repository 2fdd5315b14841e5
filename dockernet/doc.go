/*
Package dockernet discovers the IPv4 blocks of the Docker networks a
container is attached to, together with a reference to the container's
network namespace, so that the blocks can be scanned from the container's
point of view.
*/
package dockernet
