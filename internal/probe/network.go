package probe

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Iron-Ham/medic/internal/config"
	"github.com/Iron-Ham/medic/internal/errors"
	"github.com/Iron-Ham/medic/internal/report"
	"github.com/Iron-Ham/medic/internal/tui/view"
)

// DialFunc opens a connection. net.Dialer.DialContext satisfies it.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// HostResult is the outcome of dialing one host.
type HostResult struct {
	Host    config.HostConfig
	Latency time.Duration
	Local   string
	Err     error
}

// NetworkProbe lists local interfaces and dials each configured host.
type NetworkProbe struct {
	lastReport
	hosts      []config.HostConfig
	timeout    time.Duration
	dial       DialFunc
	interfaces func() ([]net.Interface, error)
}

// NewNetworkProbe returns a probe dialing hosts over TCP with the given
// per-host timeout.
func NewNetworkProbe(hosts []config.HostConfig, timeout time.Duration) *NetworkProbe {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	var d net.Dialer
	return &NetworkProbe{
		hosts:      hosts,
		timeout:    timeout,
		dial:       d.DialContext,
		interfaces: net.Interfaces,
	}
}

func (p *NetworkProbe) Kind() Kind    { return KindNetwork }
func (p *NetworkProbe) Title() string { return "Network Connectivity" }
func (p *NetworkProbe) Description() string {
	return "Interfaces, DNS resolution and TCP reachability of known hosts"
}

// Dial connects to every host concurrently. Results keep the order of hosts.
func (p *NetworkProbe) Dial(ctx context.Context) ([]HostResult, error) {
	results := make([]HostResult, len(p.hosts))
	g, gctx := errgroup.WithContext(ctx)
	for i, host := range p.hosts {
		g.Go(func() error {
			results[i] = p.dialOne(gctx, host)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, ctx.Err()
}

func (p *NetworkProbe) dialOne(ctx context.Context, host config.HostConfig) HostResult {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	conn, err := p.dial(ctx, "tcp", host.Address)
	res := HostResult{Host: host, Latency: time.Since(start)}
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = errors.NewTimeoutError("dial "+host.Address, p.timeout).WithCause(err)
		}
		res.Err = err
		return res
	}
	if addr := conn.LocalAddr(); addr != nil {
		res.Local = addr.String()
	}
	_ = conn.Close()
	return res
}

// Run prints the interface list, the dial results and a summary. It fails
// when hosts are configured and none answered.
func (p *NetworkProbe) Run(ctx context.Context, w io.Writer) error {
	blk := report.NewBlock(p.Title())

	view.Section(w, "Interfaces")
	ifaces, err := p.interfaces()
	if err != nil {
		view.Warn(w, "Cannot list interfaces: "+err.Error())
	}
	up := 0
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		up++
		addr := firstAddr(iface)
		view.KV(w, iface.Name, addr)
		blk.Field("Interface "+iface.Name, addr)
	}
	if up == 0 {
		view.Warn(w, "No active non-loopback interface")
	}

	view.Section(w, "Connectivity")
	if len(p.hosts) == 0 {
		view.Info(w, "No hosts configured in network.hosts")
		blk.Field("Hosts Reachable", "none configured")
		p.set(blk.String())
		return nil
	}

	results, err := p.Dial(ctx)
	if err != nil {
		return err
	}

	reachable := 0
	local := ""
	for _, r := range results {
		label := r.Host.Name
		if label == "" {
			label = r.Host.Address
		}
		if r.Err != nil {
			view.Err(w, fmt.Sprintf("%s: Connection failed (%s)", label, shortError(r.Err)))
			blk.Field(label, "Connection failed")
			continue
		}
		reachable++
		if local == "" {
			local = r.Local
		}
		view.OK(w, fmt.Sprintf("%s: Connected (%d ms)", label, r.Latency.Milliseconds()))
		blk.Fieldf(label, "Connected (%d ms)", r.Latency.Milliseconds())
	}

	view.Section(w, "Summary")
	if local != "" {
		view.KV(w, "Local Address", local)
	}
	summary := fmt.Sprintf("%d/%d hosts reachable", reachable, len(results))
	blk.Fieldf("Hosts Reachable", "%d/%d", reachable, len(results))
	p.set(blk.String())

	switch {
	case reachable == len(results):
		view.OK(w, summary)
	case reachable > 0:
		view.Warn(w, summary)
	default:
		view.Err(w, summary)
		view.Info(w, "Check cables, Wi-Fi, proxy and firewall settings")
		return errors.NewProbeError("no configured host reachable", errors.ErrUnreachable).
			WithProbe(KindNetwork.String())
	}
	return nil
}

func firstAddr(iface net.Interface) string {
	addrs, err := iface.Addrs()
	if err != nil || len(addrs) == 0 {
		return "no address"
	}
	for _, a := range addrs {
		if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
			return ipnet.String()
		}
	}
	return addrs[0].String()
}

// shortError drops the "dial tcp host:port:" prefix net errors carry.
func shortError(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
