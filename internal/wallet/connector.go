package wallet

import (
	"context"
	"fmt"
)

// Connector dispatches a connection request to the backend registered for a Kind.
type Connector struct {
	backends map[Kind]Backend
	order    []Kind
}

func NewConnector(backends ...Backend) *Connector {
	c := &Connector{backends: make(map[Kind]Backend, len(backends))}
	for _, b := range backends {
		if b == nil {
			continue
		}
		if _, dup := c.backends[b.Kind()]; !dup {
			c.order = append(c.order, b.Kind())
		}
		c.backends[b.Kind()] = b
	}
	return c
}

func (c *Connector) Backend(kind Kind) (Backend, bool) {
	b, ok := c.backends[kind]
	return b, ok
}

// Kinds lists the registered backends in registration order.
func (c *Connector) Kinds() []Kind {
	out := make([]Kind, len(c.order))
	copy(out, c.order)
	return out
}

// Connect runs one connection attempt on the selected backend.
func (c *Connector) Connect(ctx context.Context, kind Kind) (string, error) {
	b, ok := c.backends[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedWallet, kind)
	}
	return b.Connect(ctx)
}
