package checkers

import (
	"context"
	"fmt"

	gopsnet "github.com/shirou/gopsutil/v4/net"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/schema"
)

// riskyPorts are remote-access and file-sharing services that should not be
// listening on a desktop machine.
var riskyPorts = map[uint16]bool{
	22:   true, // SSH
	23:   true, // Telnet
	139:  true, // NetBIOS
	445:  true, // SMB
	3389: true, // RDP
	5900: true, // VNC
}

// devPorts are common local development servers, whitelisted to avoid
// flagging a developer's own tooling.
var devPorts = map[uint16]bool{
	3000: true,
	5000: true,
	8000: true,
	8080: true,
	5432: true,
	3306: true,
	6379: true,
}

var serviceNames = map[uint16]string{
	22:   "SSH",
	23:   "Telnet",
	80:   "HTTP",
	139:  "NetBIOS",
	443:  "HTTPS",
	445:  "SMB",
	3306: "MySQL",
	3389: "RDP",
	5432: "PostgreSQL",
	5900: "VNC",
	8080: "HTTP-Alt",
}

// PortScanner flags risky listening TCP ports. It is skipped in quick mode.
type PortScanner struct{}

func NewPortScanner() *PortScanner { return &PortScanner{} }

func (c *PortScanner) Name() string { return "port_scanner" }

func (c *PortScanner) Category() schema.CheckCategory { return schema.CategorySecurity }

func (c *PortScanner) Run(ctx context.Context, scanCtx *schema.ScanContext) []schema.Issue {
	if scanCtx.Options.Quick {
		return nil
	}

	ports, err := listeningPorts(ctx)
	if err != nil {
		return nil
	}

	var issues []schema.Issue
	for _, port := range ports {
		if issue, ok := portIssue(port); ok {
			issues = append(issues, issue)
		}
	}
	return issues
}

// Fix has no handlers: closing a port means stopping whatever service owns
// it, which the user must decide.
func (c *PortScanner) Fix(context.Context, string, map[string]any) contract.FixOutcome {
	return contract.NotApplicable()
}

// portIssue classifies one listening port. Only risky, non-development
// ports produce an issue.
func portIssue(port uint16) (schema.Issue, bool) {
	if !riskyPorts[port] || devPorts[port] {
		return schema.Issue{}, false
	}

	var severity schema.Severity
	switch port {
	case 3389, 22, 23:
		severity = schema.SeverityCritical
	case 445, 139:
		severity = schema.SeverityWarning
	default:
		severity = schema.SeverityInfo
	}

	service := serviceNames[port]
	if service == "" {
		service = "Unknown"
	}

	issueID := fmt.Sprintf("port_open_%d", port)
	if port == 3389 {
		issueID = "rdp_port_open"
	}

	return schema.Issue{
		ID:             issueID,
		Severity:       severity,
		Title:          fmt.Sprintf("Port %d (%s) is open", port, service),
		Description:    portDescription(port),
		ImpactCategory: schema.ImpactSecurity,
		Fix: &schema.FixAction{
			ActionID:  fmt.Sprintf("close_port_%d", port),
			Label:     "Close Port",
			IsAutoFix: false,
			Params:    map[string]any{"port": int(port), "service": service},
		},
	}, true
}

func portDescription(port uint16) string {
	switch port {
	case 3389:
		return "Remote Desktop (RDP) is exposed. This allows remote access to your computer. Close this unless you specifically need remote access."
	case 445, 139:
		return "SMB file sharing is exposed. This can allow network access to your files."
	case 22:
		return "SSH is open. This allows remote command-line access to your computer."
	case 23:
		return "Telnet is open. This is an insecure protocol and should be disabled."
	default:
		return fmt.Sprintf("Port %d is open to network connections.", port)
	}
}

// listeningPorts enumerates distinct TCP ports in LISTEN state below 10000.
func listeningPorts(ctx context.Context) ([]uint16, error) {
	conns, err := gopsnet.ConnectionsWithContext(ctx, "tcp")
	if err != nil {
		return nil, err
	}

	seen := make(map[uint16]bool)
	var ports []uint16
	for _, conn := range conns {
		if conn.Status != "LISTEN" {
			continue
		}
		port := uint16(conn.Laddr.Port)
		if conn.Laddr.Port >= 10000 || seen[port] {
			continue
		}
		seen[port] = true
		ports = append(ports, port)
	}
	return ports, nil
}
