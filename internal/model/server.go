package model

import (
	"context"
	"net"
)

// SecurityLayer produces the network listener the server accepts
// connections on, with or without TLS.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is the transport-facing lifecycle contract.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
