// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/siemens/blockscan/findings"
	"github.com/siemens/blockscan/ipv4"
	"github.com/siemens/blockscan/probe"
	"github.com/siemens/blockscan/resolver"
	"github.com/siemens/blockscan/scan"

	"github.com/gosuri/uilive"
	"github.com/miekg/dns"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/thediveo/lxkns/log"
	"golang.org/x/sync/errgroup"
)

// ScanAndReport runs the specified scan jobs one after another, rendering
// the hits live to the specified writer. When enabled, live hosts get their
// names reverse resolved and metrics are served while scanning. A non-empty
// netnsref makes all probing and resolving happen inside the referenced
// network namespace.
func ScanAndReport(ctx context.Context, out io.Writer, cfg settings, jobs []job, netnsref string) error {
	var listener net.Listener
	if cfg.Metrics != "" {
		var err error
		listener, err = net.Listen("tcp", cfg.Metrics)
		if err != nil {
			return fmt.Errorf("cannot serve metrics: %w", err)
		}
	}
	var res *resolver.Resolver
	if cfg.Resolve {
		var err error
		res, err = newResolver(ctx, cfg, netnsref)
		if err != nil {
			if listener != nil {
				listener.Close()
			}
			return fmt.Errorf("cannot set up name resolution: %w", err)
		}
	}

	// Hits get recorded directly by the scan consumers, while resolution
	// results stream in via news. Rendering stops only after tracking has
	// finished because the news channel has been closed, which happens after
	// scanning as well as resolving have finished.
	hits := findings.New()
	news := make(chan findings.Update, 64)
	sess := newSession(len(jobs))
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	g, gctx := errgroup.WithContext(ctx)
	scanningDone := make(chan struct{})
	trackingDone := make(chan struct{})

	lookup := func(addr ipv4.Address) {
		if res == nil {
			return
		}
		hits.Update(findings.Update{Address: addr, State: findings.Resolving})
		res.ReverseLookup(gctx, addr, func(names []string, err error) {
			state := findings.Resolved
			if err != nil {
				state = findings.Unresolvable
			}
			news <- findings.Update{Address: addr, Names: names, State: state, Err: err}
		})
	}

	g.Go(func() error {
		defer close(scanningDone)
		defer func() {
			if res != nil {
				res.StopWait()
			}
			close(news)
		}()
		var errs []error
		for _, j := range jobs {
			if gctx.Err() != nil {
				break
			}
			e := newEngine(cfg, j.target, netnsref, hits, lookup)
			if err := registry.Register(scan.NewCollector(e, prometheus.Labels{"target": j.label})); err != nil {
				log.Warnf("cannot register metrics for %s: %s", j.label, err.Error())
			}
			sess.start(j.label, e)
			if err := e.ExecuteAndWait(gctx); err != nil {
				errs = append(errs, fmt.Errorf("scanning %s: %w", j.label, err))
			}
			sess.finish()
		}
		return errors.Join(errs...)
	})

	g.Go(func() error {
		defer close(trackingDone)
		// news always gets closed, so tracking must not stop early.
		return hits.Track(context.WithoutCancel(gctx), news)
	})

	if listener != nil {
		server := &http.Server{
			Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Infof("serving metrics on %s", listener.Addr())
		g.Go(func() error {
			if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			select {
			case <-scanningDone:
			case <-gctx.Done():
			}
			return server.Shutdown(context.Background())
		})
	}

	g.Go(func() error {
		// Avoid uilive's background updating with its Start() method, as it
		// might flush a partially rendered buffer, making the output flicker.
		// Instead, render completely and then explicitly flush.
		term := uilive.New()
		term.Out = out
		r := newRenderer(term, cfg.Spinner)
		r.Indentation = cfg.Indent
		defer r.Stop()
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Render(sess.snapshot(cfg.Hang), hits.Get(), false)
				term.Flush()
			case <-trackingDone:
				r.Render(sess.snapshot(cfg.Hang), hits.Get(), true)
				term.Flush()
				return nil
			}
		}
	})

	return g.Wait()
}

// newEngine returns either an address-only or an address:port scan engine
// for the specified target, recording its hits. lookup gets called on the
// first sighting of each live address.
func newEngine(cfg settings, target scan.Target, netnsref string, hits *findings.Findings, lookup func(ipv4.Address)) engine {
	if len(cfg.Ports) == 0 {
		opts := []scan.Option{scan.WithThreads(cfg.Threads)}
		if cfg.Ping {
			popts := []probe.Option{
				probe.WithCount(1),
				probe.WithInterval(cfg.Timeout),
				probe.InNetworkNamespace(netnsref),
			}
			if cfg.Unprivileged {
				popts = append(popts, probe.AsUnprivileged())
			}
			opts = append(opts, scan.WithPinger(probe.NewPinger(popts...)))
		}
		return scan.NewBlockScan(target, func(addr ipv4.Address) {
			if hits.AddAddress(addr) {
				lookup(addr)
			}
		}, opts...)
	}
	return scan.NewBlockPortScan(target, func(ap ipv4.AddressPort) {
		if hits.AddPort(ap) {
			lookup(ap.Address())
		}
	},
		scan.WithThreads(cfg.Threads),
		scan.WithPorts(cfg.Ports...),
		scan.WithPortCheck(!cfg.NoCheck),
		scan.WithCheckTimeout(cfg.Timeout),
		scan.InNetworkNamespace(netnsref))
}

// newResolver returns a resolver talking to the configured DNS server, or
// otherwise to the first nameserver from /etc/resolv.conf.
func newResolver(ctx context.Context, cfg settings, netnsref string) (*resolver.Resolver, error) {
	addr := cfg.DNS
	if addr == "" {
		conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
		if err != nil {
			return nil, err
		}
		if len(conf.Servers) == 0 {
			return nil, errors.New("no nameserver configured")
		}
		addr = net.JoinHostPort(conf.Servers[0], conf.Port)
	}
	dnsclnt := &dns.Client{Net: "udp", Timeout: 2 * time.Second}
	return resolver.New(ctx, cfg.Threads, dnsclnt, addr,
		resolver.InNetworkNamespace(netnsref))
}
