package server

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ErrNoFreePort is returned when neither the preferred nor any fallback port
// can be bound.
var ErrNoFreePort = errors.New("no free port")

// Binding is the host and port the server listens on.
type Binding struct {
	Host string
	Port int
}

// Addr returns the host:port listen address.
func (b Binding) Addr() string {
	return net.JoinHostPort(b.Host, strconv.Itoa(b.Port))
}

// URL returns the base URL for the binding.
func (b Binding) URL() string {
	return "http://" + b.Addr()
}

// ResolvePort returns the first of preferred and fallbacks that can be bound
// on host. Each candidate is probed by binding and closing a listener, so
// another process may take the port before the server binds it again.
func ResolvePort(host string, preferred int, fallbacks []int) (Binding, error) {
	candidates := make([]int, 0, len(fallbacks)+1)
	seen := make(map[int]bool, len(fallbacks)+1)
	for _, p := range append([]int{preferred}, fallbacks...) {
		if seen[p] {
			continue
		}
		seen[p] = true
		candidates = append(candidates, p)
	}

	for _, p := range candidates {
		if portFree(host, p) {
			return Binding{Host: host, Port: p}, nil
		}
	}

	tried := make([]string, len(candidates))
	for i, p := range candidates {
		tried[i] = strconv.Itoa(p)
	}
	return Binding{}, fmt.Errorf("%w on %s (tried %s): stop the process using port %d or set PORT to another port",
		ErrNoFreePort, host, strings.Join(tried, ", "), preferred)
}

func portFree(host string, port int) bool {
	l, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = l.Close()
	return true
}
