/*
Package workergroup runs the same task concurrently on a fixed number of
workers and offers a blocking join on all of them.

	          +-------+
	task x N->| Group |--> Wait() error
	          +-------+

A [Group] accepts exactly one submission using [Group.SubmitAll]; afterwards
it is closed for further submissions and releases its goroutines as soon as
all task copies have finished. [Group.IsStillWorking] is a non-blocking poll
telling whether any task copy is still running.

Tasks failing by returning an error or by panicking do not abort their
siblings. Instead, the failures are logged and collected, and later returned
joined from [Group.Wait].

# Acknowledgements

Under its hood, [Group] leverages [gammazero/workerpool] as the limiting
goroutine pool.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
*/
package workergroup
