package services

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// IfaceResult lists the machine's wireless interfaces and its default
// gateway, used once at startup for interface selection and the default
// ping target.
type IfaceResult struct {
	Interfaces []string
	Gateway    string
}

// IfaceSensor discovers wireless interfaces (`iw dev`) and the default
// gateway (`ip route`).
type IfaceSensor struct{}

func NewIfaceSensor() *IfaceSensor {
	return &IfaceSensor{}
}

func (s *IfaceSensor) Name() string {
	return "Interface"
}

func (s *IfaceSensor) Connect(ctx context.Context) error {
	return nil
}

func (s *IfaceSensor) Disconnect(ctx context.Context) error {
	return nil
}

func (s *IfaceSensor) Collect(ctx context.Context) (any, error) {
	out, err := exec.CommandContext(ctx, "iw", "dev").Output()
	if err != nil {
		return nil, fmt.Errorf("iw dev: %w", err)
	}
	res := IfaceResult{Interfaces: ParseInterfaces(string(out))}

	// Gateway discovery is best effort; a machine without a default
	// route still has a usable link view.
	if routeOut, err := exec.CommandContext(ctx, "ip", "route").Output(); err == nil {
		res.Gateway = ParseDefaultGateway(string(routeOut))
	}
	return res, nil
}

// ParseInterfaces extracts interface names from `iw dev` output.
func ParseInterfaces(out string) []string {
	var ifaces []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "Interface "); ok {
			ifaces = append(ifaces, strings.TrimSpace(rest))
		}
	}
	return ifaces
}

// ParseDefaultGateway extracts the default gateway address from
// `ip route` output, or "" when there is no default route.
func ParseDefaultGateway(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "default") {
			continue
		}
		fields := strings.Fields(line)
		for i, f := range fields {
			if f == "via" && i+1 < len(fields) {
				return fields[i+1]
			}
		}
	}
	return ""
}
