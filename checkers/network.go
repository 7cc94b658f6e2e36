package checkers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/internal/executil"
	"github.com/healthspeed/healthspeed/schema"
)

const (
	latencyWarningMs     = 150
	latencyCriticalMs    = 300
	dnsSlowMs            = 100
	downloadSlowMbps     = 5.0
	downloadCriticalMbps = 1.0
	probeFailureMs       = 999

	connectProbeTimeout = 2 * time.Second
	downloadTimeout     = 10 * time.Second
)

// latencyHosts are well-known anycast resolvers used as reachability targets.
var latencyHosts = []string{
	"1.1.1.1:80",       // Cloudflare
	"8.8.8.8:80",       // Google DNS
	"208.67.222.222:80", // OpenDNS
}

// dnsDomains are resolved to time name lookups.
var dnsDomains = []string{
	"google.com",
	"cloudflare.com",
	"amazon.com",
}

// speedTestURL serves an uncached 10MB payload for the download measurement.
const speedTestURL = "https://speed.cloudflare.com/__down?bytes=10000000"

// NetworkChecker measures latency, DNS resolution time and download speed.
// It is skipped in quick mode because its probes block on real network IO.
type NetworkChecker struct {
	fixTimeout time.Duration
}

func NewNetworkChecker(fixTimeout time.Duration) *NetworkChecker {
	return &NetworkChecker{fixTimeout: fixTimeout}
}

func (c *NetworkChecker) Name() string { return "network_checker" }

func (c *NetworkChecker) Category() schema.CheckCategory { return schema.CategoryPerformance }

func (c *NetworkChecker) Run(ctx context.Context, sc *schema.ScanContext) []schema.Issue {
	if sc.Options.Quick {
		return nil
	}

	var issues []schema.Issue

	latencyMs, reachable := averageLatency()
	if issue := latencyIssue(latencyMs, reachable); issue != nil {
		issues = append(issues, *issue)
	}

	dnsMs, resolved := averageDNSTime(ctx)
	if issue := dnsIssue(dnsMs, resolved); issue != nil {
		issues = append(issues, *issue)
	}

	// Skip the download measurement entirely when unreachable.
	if reachable {
		if mbps, ok := downloadSpeedMbps(ctx); ok {
			if issue := downloadIssue(mbps); issue != nil {
				issues = append(issues, *issue)
			}
		}
	}

	if proxyConfigured() {
		issues = append(issues, schema.Issue{
			ID:             "network_proxy_detected",
			Severity:       schema.SeverityInfo,
			Title:          "Proxy/VPN Detected",
			Description:    "A proxy or VPN is configured. This may slow down your connection.",
			ImpactCategory: schema.ImpactPerformance,
		})
	}

	return issues
}

func (c *NetworkChecker) Fix(ctx context.Context, actionID string, _ map[string]any) contract.FixOutcome {
	if actionID != "fix_dns" {
		return contract.NotApplicable()
	}

	if runtime.GOOS != "windows" {
		return contract.Failed(fmt.Errorf(
			"DNS auto-fix is only available on Windows; set your resolver to 1.1.1.1 manually"))
	}

	out, err := executil.Run(ctx, c.fixTimeout, "ipconfig", "/all")
	if err != nil {
		return contract.Failed(fmt.Errorf("could not inspect network adapters: %w", err))
	}
	adapter := activeAdapterName(string(out))
	if adapter == "" {
		return contract.Failed(fmt.Errorf("could not detect active network adapter"))
	}

	if _, err := executil.Run(ctx, c.fixTimeout, "netsh",
		"interface", "ip", "set", "dns",
		fmt.Sprintf(`name="%s"`, adapter), "static", "1.1.1.1", "primary"); err != nil {
		return contract.Failed(fmt.Errorf("failed to set DNS; you may need administrator privileges: %w", err))
	}
	// Secondary resolver is best-effort.
	_, _ = executil.Run(ctx, c.fixTimeout, "netsh",
		"interface", "ip", "add", "dns",
		fmt.Sprintf(`name="%s"`, adapter), "1.0.0.1", "index=2")

	return contract.Succeeded(schema.FixResult{
		Success:           true,
		Message:           fmt.Sprintf("DNS changed to Cloudflare (1.1.1.1) on adapter '%s'", adapter),
		RollbackAvailable: true,
		RestorePointID:    &adapter,
	})
}

// latencyIssue maps the average connect latency to an issue, or nil when the
// connection is healthy.
func latencyIssue(avgMs int64, reachable bool) *schema.Issue {
	if !reachable {
		return &schema.Issue{
			ID:             "network_no_connection",
			Severity:       schema.SeverityCritical,
			Title:          "No Internet Connection",
			Description:    "Unable to reach external servers. Check your network connection.",
			ImpactCategory: schema.ImpactPerformance,
		}
	}
	if avgMs <= latencyWarningMs {
		return nil
	}
	severity := schema.SeverityWarning
	if avgMs > latencyCriticalMs {
		severity = schema.SeverityCritical
	}
	return &schema.Issue{
		ID:       "network_high_latency",
		Severity: severity,
		Title:    fmt.Sprintf("High Network Latency (%dms)", avgMs),
		Description: fmt.Sprintf(
			"Your network latency is %dms. Good latency is under 50ms. This may cause lag in online activities.", avgMs),
		ImpactCategory: schema.ImpactPerformance,
	}
}

// dnsIssue maps the average resolution time to an issue, or nil when fast.
func dnsIssue(avgMs int64, resolved bool) *schema.Issue {
	if !resolved {
		return &schema.Issue{
			ID:             "network_dns_failure",
			Severity:       schema.SeverityCritical,
			Title:          "DNS Resolution Failure",
			Description:    "Unable to resolve domain names. Your DNS server may be unavailable.",
			ImpactCategory: schema.ImpactPerformance,
			Fix:            dnsFixAction(),
		}
	}
	if avgMs <= dnsSlowMs {
		return nil
	}
	return &schema.Issue{
		ID:       "network_slow_dns",
		Severity: schema.SeverityInfo,
		Title:    fmt.Sprintf("Slow DNS Resolution (%dms)", avgMs),
		Description: fmt.Sprintf(
			"DNS lookups are taking %dms. Consider switching to faster DNS servers like Cloudflare (1.1.1.1) or Google (8.8.8.8).", avgMs),
		ImpactCategory: schema.ImpactPerformance,
		Fix:            dnsFixAction(),
	}
}

// downloadIssue maps the measured download speed to an issue, or nil.
func downloadIssue(mbps float64) *schema.Issue {
	if mbps >= downloadSlowMbps {
		return nil
	}
	severity := schema.SeverityWarning
	if mbps < downloadCriticalMbps {
		severity = schema.SeverityCritical
	}
	return &schema.Issue{
		ID:       "network_slow_speed",
		Severity: severity,
		Title:    fmt.Sprintf("Slow Download Speed (%.1f Mbps)", mbps),
		Description: fmt.Sprintf(
			"Your download speed is %.1f Mbps. This is quite slow for modern usage. Contact your ISP if this persists.", mbps),
		ImpactCategory: schema.ImpactPerformance,
	}
}

func dnsFixAction() *schema.FixAction {
	label := "Show DNS Fix Instructions"
	autoFix := false
	if runtime.GOOS == "windows" {
		label = "Change DNS to Cloudflare (1.1.1.1)"
		autoFix = true
	}
	return &schema.FixAction{
		ActionID:  "fix_dns",
		Label:     label,
		IsAutoFix: autoFix,
	}
}

// averageLatency TCP-connects to the anycast targets and averages the
// handshake time of the ones that answered.
func averageLatency() (int64, bool) {
	var totalMs int64
	var successes int64
	for _, host := range latencyHosts {
		start := time.Now()
		conn, err := net.DialTimeout("tcp", host, connectProbeTimeout)
		if err != nil {
			continue
		}
		_ = conn.Close()
		totalMs += time.Since(start).Milliseconds()
		successes++
	}
	if successes == 0 {
		return probeFailureMs, false
	}
	return totalMs / successes, true
}

// averageDNSTime resolves the probe domains and averages lookup time.
func averageDNSTime(ctx context.Context) (int64, bool) {
	var totalMs int64
	var successes int64
	for _, domain := range dnsDomains {
		lookupCtx, cancel := context.WithTimeout(ctx, connectProbeTimeout)
		start := time.Now()
		_, err := net.DefaultResolver.LookupHost(lookupCtx, domain)
		cancel()
		if err != nil {
			continue
		}
		totalMs += time.Since(start).Milliseconds()
		successes++
	}
	if successes == 0 {
		return probeFailureMs, false
	}
	return totalMs / successes, true
}

// downloadSpeedMbps pulls the test payload and converts the transfer rate.
func downloadSpeedMbps(ctx context.Context) (float64, bool) {
	reqCtx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, speedTestURL, nil)
	if err != nil {
		return 0, false
	}
	start := time.Now()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, false
	}
	defer func() { _ = resp.Body.Close() }()

	var bytesDownloaded int64
	buf := make([]byte, 8192)
	for {
		n, err := resp.Body.Read(buf)
		bytesDownloaded += int64(n)
		if err != nil {
			break
		}
	}

	elapsed := time.Since(start).Seconds()
	if elapsed <= 0 || bytesDownloaded == 0 {
		return 0, false
	}
	return (float64(bytesDownloaded) * 8.0) / (elapsed * 1_000_000.0), true
}

// proxyConfigured reports whether a proxy is set in the environment.
func proxyConfigured() bool {
	for _, key := range []string{"HTTP_PROXY", "HTTPS_PROXY", "http_proxy", "https_proxy"} {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

// activeAdapterName parses `ipconfig /all` output and returns the first
// adapter section that lists a default gateway.
func activeAdapterName(output string) string {
	var current string
	var hasGateway bool
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)

		if !strings.HasPrefix(line, " ") && strings.Contains(trimmed, "adapter") {
			if current != "" && hasGateway {
				return current
			}
			_, name, found := strings.Cut(trimmed, "adapter")
			if found {
				current = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(name), ":"))
				hasGateway = false
			}
			continue
		}

		if strings.Contains(trimmed, "Default Gateway") && !strings.HasSuffix(trimmed, ":") {
			hasGateway = true
		}
	}
	if current != "" && hasGateway {
		return current
	}
	return ""
}
