/*
Package scan implements blockscan's producer/consumer scanning engine.

An [Engine] enumerates the addresses of a [Target] according to the target's
[Method], turns each address into one or more work items, and pushes them
into a bounded queue. A fixed number of consumers drain the queue, report
each item to an optional progress callback, optionally check the item for
liveness, and finally hand live items (or all items when liveness checking is
disabled) to the caller-supplied consuming callback.

	            +----------+   queue    +------------+
	Target ---->| producer |==(16xN)==>| consumer 1 |--> progress, probe, consume
	            +----------+            |    ...     |
	                                    | consumer N |
	                                    +------------+

The engine comes in two flavors: [NewBlockScan] scans addresses and
optionally pings them, while [NewBlockPortScan] scans address:port pairs for
a list of ports and by default checks them for accepting TCP connections.

# Backpressure

The queue holds at most 16 items per consumer. The producer blocks while the
queue is full, so that even endless scans running for hours stay within
bounded memory.

# Shutdown

[Engine.Shutdown] requests cooperative termination: the producer stops
enqueueing at its next enqueue point and consumers stop at their next loop
iteration, even with items still queued. Shutdown never interrupts an
in-flight probe; the probe first runs into its own timeout. Cancelling the
context passed to [Engine.Execute] shuts down the engine as well, and
additionally aborts in-flight probes.

# Telemetry

Each worker records a timestamp whenever it completes an iteration, keeping
track of the quickest and longest turnaround seen. [Telemetry.Hanging]
reports workers that haven't completed an iteration for a given duration.
A [Collector] exports the engine's counters and telemetry to Prometheus.
*/
package scan
