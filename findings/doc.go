/*
Package findings collects scan hits: live hosts, their open ports, and the
names they reverse-resolve to. [Findings] is safe for concurrent use by the
consumers of a scan and the resolver workers alike.
*/
package findings
