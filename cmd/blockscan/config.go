// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Names of the configuration keys, which double as flag names.
const (
	cfgPorts        = "ports"
	cfgThreads      = "threads"
	cfgTimeout      = "timeout"
	cfgNoCheck      = "no-check"
	cfgPing         = "ping"
	cfgUnprivileged = "unprivileged"
	cfgEndless      = "endless"
	cfgResolve      = "resolve"
	cfgDNS          = "dns"
	cfgContainer    = "container"
	cfgMetrics      = "metrics"
	cfgHang         = "hang"
	cfgSpinner      = "spinner"
	cfgIndent       = "indent"
	cfgDebug        = "debug"
	cfgConfig       = "config"
)

// envPrefix prefixes the environment variables overriding the defaults, such
// as BLOCKSCAN_THREADS.
const envPrefix = "BLOCKSCAN"

// settings is the validated configuration of a scan session.
type settings struct {
	Ports        []int
	Threads      int
	Timeout      time.Duration
	NoCheck      bool
	Ping         bool
	Unprivileged bool
	Endless      string // "", "up", or "down".
	Resolve      bool
	DNS          string // "host:port", or "" for the system resolver.
	Container    string
	Metrics      string // listen address of the metrics endpoint, or "".
	Hang         time.Duration
	Spinner      time.Duration
	Indent       int
	Debug        bool
}

// setupFlags defines the command's flags.
func setupFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.IntSlice(cfgPorts, nil, "TCP ports to scan on each address; scans addresses only if empty")
	flags.Int(cfgThreads, 4, "number of concurrent consumer threads")
	flags.Duration(cfgTimeout, 300*time.Millisecond, "TCP connect timeout when checking ports")
	flags.Bool(cfgNoCheck, false, "report all generated address:port pairs without checking them")
	flags.Bool(cfgPing, false, "report only addresses answering ICMP echo requests (addresses-only scans)")
	flags.Bool(cfgUnprivileged, false, "use unprivileged UDP pings")
	flags.String(cfgEndless, "", "scan endlessly from the single target address, either \"up\" or \"down\"")
	flags.Bool(cfgResolve, false, "reverse resolve the names of live hosts")
	flags.String(cfgDNS, "", "DNS server host:port to use for reverse resolution (default from /etc/resolv.conf)")
	flags.String(cfgContainer, "", "scan the networks attached to this Docker container, from inside it")
	flags.String(cfgMetrics, "", "serve Prometheus metrics on this listen address, such as \":9100\"")
	flags.Duration(cfgHang, 5*time.Second, "report threads not seen for at least this long as hanging")
	flags.Duration(cfgSpinner, 100*time.Millisecond, "spinner interval")
	flags.Int(cfgIndent, 3, "indentation width")
	flags.Bool(cfgDebug, false, "enable debugging output")
	flags.String(cfgConfig, "", "YAML config file")
}

// loadSettings layers flags over environment variables over an optional
// config file, and then validates the result.
func loadSettings(cmd *cobra.Command) (settings, error) {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return settings{}, err
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if cfgFile := v.GetString(cfgConfig); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return settings{}, fmt.Errorf("cannot read config file: %w", err)
		}
	}
	s := settings{
		Ports:        v.GetIntSlice(cfgPorts),
		Threads:      v.GetInt(cfgThreads),
		Timeout:      v.GetDuration(cfgTimeout),
		NoCheck:      v.GetBool(cfgNoCheck),
		Ping:         v.GetBool(cfgPing),
		Unprivileged: v.GetBool(cfgUnprivileged),
		Endless:      v.GetString(cfgEndless),
		Resolve:      v.GetBool(cfgResolve),
		DNS:          v.GetString(cfgDNS),
		Container:    v.GetString(cfgContainer),
		Metrics:      v.GetString(cfgMetrics),
		Hang:         v.GetDuration(cfgHang),
		Spinner:      v.GetDuration(cfgSpinner),
		Indent:       v.GetInt(cfgIndent),
		Debug:        v.GetBool(cfgDebug),
	}
	return s, s.validate()
}

func (s settings) validate() error {
	if s.Threads < 1 || s.Threads > 1024 {
		return fmt.Errorf("--%s out of range [1..1024]", cfgThreads)
	}
	if s.Timeout < time.Millisecond {
		return fmt.Errorf("--%s must be at least 1ms", cfgTimeout)
	}
	for _, port := range s.Ports {
		if port < 0 || port > 65535 {
			return fmt.Errorf("--%s: port %d out of range [0..65535]", cfgPorts, port)
		}
	}
	switch s.Endless {
	case "", "up", "down":
	default:
		return fmt.Errorf("--%s must be either \"up\" or \"down\"", cfgEndless)
	}
	if s.Ping && len(s.Ports) > 0 {
		return fmt.Errorf("--%s only applies to scans without --%s", cfgPing, cfgPorts)
	}
	if s.Endless != "" && s.Container != "" {
		return fmt.Errorf("--%s and --%s are mutually exclusive", cfgEndless, cfgContainer)
	}
	if s.Hang <= 0 {
		return fmt.Errorf("--%s must be positive", cfgHang)
	}
	if s.Indent < 0 || s.Indent > 80 {
		return fmt.Errorf("--%s width out of range [0..80]", cfgIndent)
	}
	if s.Spinner < 10*time.Millisecond {
		return fmt.Errorf("--%s must be at least 10ms", cfgSpinner)
	}
	return nil
}
