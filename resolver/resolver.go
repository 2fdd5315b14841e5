// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/siemens/blockscan/ipv4"

	"github.com/gammazero/workerpool"
	"github.com/miekg/dns"
	"github.com/thediveo/lxkns/log"
	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

// ErrNoAnswer is reported for lookups without any usable answer.
var ErrNoAnswer = errors.New("no answer")

// Resolver is a (size-limited) pool of DNS client connections talking with
// the same DNS server address.
type Resolver struct {
	netns   relations.Relation // network namespace to resolve from, or nil.
	dnsclnt *dns.Client
	workers *workerpool.WorkerPool
	mu      sync.Mutex // protects the pool of DNS connections.
	free    []*dns.Conn
}

// Option can be passed to New when creating new [Resolver] objects.
type Option func(*Resolver)

// InNetworkNamespace optionally dials the DNS client connections inside the
// network namespace referenced by the specified filesystem path, such as
// "/proc/666/ns/net". An empty path keeps the current network namespace.
func InNetworkNamespace(netnsref string) Option {
	return func(r *Resolver) {
		if netnsref == "" {
			r.netns = nil
			return
		}
		r.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// New returns a pool of the specified size of DNS client connections, all
// talking to the same DNS server address.
//
// The passed context is used for creating (dialing) the DNS client
// connections only. Lookups get their own contexts.
func New(ctx context.Context, size int, dnsclnt *dns.Client, addr string, options ...Option) (*Resolver, error) {
	if size < 1 {
		size = 1
	}
	r := &Resolver{
		dnsclnt: dnsclnt,
	}
	for _, opt := range options {
		opt(r)
	}
	free := make([]*dns.Conn, 0, size)
	dial := func() interface{} {
		for i := 0; i < size; i++ {
			conn, err := dnsclnt.DialContext(ctx, addr)
			if err != nil {
				// Immediately release all connections created so far.
				for _, conn := range free {
					conn.Close()
				}
				return err
			}
			free = append(free, conn)
		}
		return nil
	}
	var err error
	var dialerr interface{}
	if r.netns != nil {
		dialerr, err = ops.Execute(dial, r.netns)
	} else {
		dialerr = dial()
	}
	if err != nil {
		return nil, err
	}
	if dialerr != nil {
		return nil, dialerr.(error)
	}
	r.free = free
	r.workers = workerpool.New(size)
	log.Debugf("resolver: %d connection(s) to %s", size, addr)
	return r, nil
}

// Submit a task to the DNS client connection pool, where it gets enqueued to
// be executed on an available DNS client connection.
func (r *Resolver) Submit(task func(conn *dns.Conn)) {
	r.workers.Submit(func() { r.task(task) })
}

// ReverseLookup submits a PTR query for the specified address and passes the
// resulting names (without trailing dots) or an error to fn. fn is always
// called exactly once.
//
// When the passed context has been cancelled by the time the query is about
// to be sent, fn is called with the context's error instead.
func (r *Resolver) ReverseLookup(ctx context.Context, addr ipv4.Address, fn func(names []string, err error)) {
	r.Submit(func(conn *dns.Conn) {
		var names []string
		var err error
		defer func() { fn(names, err) }()

		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		default:
		}
		arpa, err := dns.ReverseAddr(addr.String())
		if err != nil {
			return
		}
		msg := dns.Msg{
			MsgHdr: dns.MsgHdr{Id: dns.Id()},
		}
		msg.SetQuestion(arpa, dns.TypePTR)
		var resp *dns.Msg
		resp, _, err = r.dnsclnt.ExchangeWithConn(&msg, conn)
		if err != nil {
			return
		}
		if resp.Rcode != dns.RcodeSuccess {
			err = fmt.Errorf("reverse lookup of %s: %w (%s)",
				addr, ErrNoAnswer, dns.RcodeToString[resp.Rcode])
			return
		}
		for _, rr := range resp.Answer {
			if ptr, ok := rr.(*dns.PTR); ok {
				names = append(names, strings.TrimSuffix(ptr.Ptr, "."))
			}
		}
		if len(names) == 0 {
			err = fmt.Errorf("reverse lookup of %s: %w", addr, ErrNoAnswer)
		}
	})
}

// task grabs the next free DNS client connection and passes it to the
// specified function. After the function returns, the connection is put back
// into the free list.
func (r *Resolver) task(task func(conn *dns.Conn)) {
	r.mu.Lock()
	if len(r.free) == 0 {
		r.mu.Unlock()
		panic("no free DNS client connection available")
	}
	last := len(r.free) - 1
	conn := r.free[last]
	r.free = r.free[:last]
	r.mu.Unlock()

	task(conn)

	r.mu.Lock()
	r.free = append(r.free, conn)
	r.mu.Unlock()
}

// StopWait waits for all enqueued lookups to finish, and then closes all DNS
// client connections.
func (r *Resolver) StopWait() {
	r.workers.StopWait()
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, conn := range r.free {
		conn.Close()
	}
	r.free = nil
}
