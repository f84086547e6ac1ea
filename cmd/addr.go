package cmd

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

const defaultAddr = "127.0.0.1:4280"

// resolveServeAddr picks the listen address for serve, supporting:
//   - canvas-mcp serve :8080           (positional)
//   - canvas-mcp serve --addr :8080    (flag)
//
// A positional argument wins over the flag.
func resolveServeAddr(flagAddr string, args []string) (string, error) {
	addr := flagAddr
	if len(args) > 0 {
		addr = args[0]
	}

	if err := validateAddr(addr); err != nil {
		return "", fmt.Errorf("invalid address %q: %w", addr, err)
	}

	return addr, nil
}

// validateAddr validates the server address format.
func validateAddr(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("must be in host:port format: %w", err)
	}

	if host != "" && host != "localhost" {
		if ip := net.ParseIP(host); ip == nil {
			if strings.ContainsAny(host, " \t\n") {
				return fmt.Errorf("invalid host: %s", host)
			}
		}
	}

	if port == "" {
		return fmt.Errorf("port is required")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("port must be numeric: %w", err)
	}
	if portNum < 0 || portNum > 65535 {
		return fmt.Errorf("port must be 0-65535 (0 = auto-assign), got %d", portNum)
	}

	return nil
}
