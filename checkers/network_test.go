package checkers

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/healthspeed/healthspeed/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatencyIssue(t *testing.T) {
	issue := latencyIssue(999, false)
	require.NotNil(t, issue)
	assert.Equal(t, "network_no_connection", issue.ID)
	assert.Equal(t, schema.SeverityCritical, issue.Severity)
	assert.Nil(t, issue.Fix)

	assert.Nil(t, latencyIssue(40, true))
	assert.Nil(t, latencyIssue(150, true))

	issue = latencyIssue(200, true)
	require.NotNil(t, issue)
	assert.Equal(t, "network_high_latency", issue.ID)
	assert.Equal(t, schema.SeverityWarning, issue.Severity)
	assert.Equal(t, "High Network Latency (200ms)", issue.Title)

	issue = latencyIssue(450, true)
	require.NotNil(t, issue)
	assert.Equal(t, schema.SeverityCritical, issue.Severity)
}

func TestDNSIssue(t *testing.T) {
	issue := dnsIssue(999, false)
	require.NotNil(t, issue)
	assert.Equal(t, "network_dns_failure", issue.ID)
	assert.Equal(t, schema.SeverityCritical, issue.Severity)
	require.NotNil(t, issue.Fix)
	assert.Equal(t, "fix_dns", issue.Fix.ActionID)
	assert.Equal(t, runtime.GOOS == "windows", issue.Fix.IsAutoFix)

	assert.Nil(t, dnsIssue(30, true))

	issue = dnsIssue(180, true)
	require.NotNil(t, issue)
	assert.Equal(t, "network_slow_dns", issue.ID)
	assert.Equal(t, schema.SeverityInfo, issue.Severity)
	require.NotNil(t, issue.Fix)
	assert.Equal(t, "fix_dns", issue.Fix.ActionID)
}

func TestDownloadIssue(t *testing.T) {
	assert.Nil(t, downloadIssue(50.0))
	assert.Nil(t, downloadIssue(5.0))

	issue := downloadIssue(3.2)
	require.NotNil(t, issue)
	assert.Equal(t, "network_slow_speed", issue.ID)
	assert.Equal(t, schema.SeverityWarning, issue.Severity)
	assert.Equal(t, "Slow Download Speed (3.2 Mbps)", issue.Title)

	issue = downloadIssue(0.4)
	require.NotNil(t, issue)
	assert.Equal(t, schema.SeverityCritical, issue.Severity)
}

func TestProxyConfigured(t *testing.T) {
	for _, key := range []string{"HTTP_PROXY", "HTTPS_PROXY", "http_proxy", "https_proxy"} {
		t.Setenv(key, "")
	}
	assert.False(t, proxyConfigured())

	t.Setenv("HTTPS_PROXY", "http://proxy.corp:3128")
	assert.True(t, proxyConfigured())
}

func TestActiveAdapterName(t *testing.T) {
	ipconfig := "Windows IP Configuration\r\n" +
		"\r\n" +
		"Ethernet adapter Ethernet:\r\n" +
		"\r\n" +
		"   Media State . . . . . . . . . . . : Media disconnected\r\n" +
		"   Default Gateway . . . . . . . . . :\r\n" +
		"\r\n" +
		"Wireless LAN adapter Wi-Fi:\r\n" +
		"\r\n" +
		"   IPv4 Address. . . . . . . . . . . : 192.168.1.42\r\n" +
		"   Default Gateway . . . . . . . . . : 192.168.1.1\r\n"

	assert.Equal(t, "Wi-Fi", activeAdapterName(ipconfig))
	assert.Equal(t, "", activeAdapterName("Windows IP Configuration\r\n"))
}

func TestNetworkCheckerQuickMode(t *testing.T) {
	checker := NewNetworkChecker(time.Second)
	scanCtx := &schema.ScanContext{Options: schema.ScanOptions{Quick: true}}
	assert.Empty(t, checker.Run(context.Background(), scanCtx))
}
