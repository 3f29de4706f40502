// Package resolver implements the method-dispatching resolver façade (§4.4):
// a single entry point that routes did:peer/did:webvh/did:btco requests to
// the right driver and returns a uniform result envelope regardless of
// method.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/onionoriginals/sdk-go/pkg/did"
)

// Resolver dispatches resolve/dereference calls to registered drivers by method.
type Resolver struct {
	drivers map[string]did.Driver
}

// New builds a resolver with no drivers registered; call Register for each
// supported method before use.
func New() *Resolver {
	return &Resolver{drivers: map[string]did.Driver{}}
}

// Register attaches a driver for the method it reports via Driver.Method().
func (r *Resolver) Register(d did.Driver) {
	r.drivers[d.Method()] = d
}

func (r *Resolver) driverFor(didStr string) (did.Driver, error) {
	rest := strings.TrimPrefix(didStr, "did:")
	if rest == didStr {
		return nil, fmt.Errorf("not a did")
	}
	idx := strings.Index(rest, ":")
	if idx < 0 {
		return nil, fmt.Errorf("malformed did")
	}
	method := rest[:idx]
	d, ok := r.drivers[method]
	if !ok {
		return nil, fmt.Errorf("unsupported method %q", method)
	}
	return d, nil
}

// Resolve resolves a DID to its document via the registered driver for its
// method. An unregistered or malformed method still yields a uniform
// envelope carrying ErrorInvalidDid rather than a Go error.
func (r *Resolver) Resolve(ctx context.Context, didStr string) (*did.ResolutionResult, error) {
	d, err := r.driverFor(didStr)
	if err != nil {
		return &did.ResolutionResult{Errors: []did.ErrorKind{did.ErrorInvalidDid}}, nil
	}
	return d.Resolve(ctx, didStr)
}

// Dereference dereferences a DID URL via the registered driver for its method.
func (r *Resolver) Dereference(ctx context.Context, didURL string) (*did.DereferenceResult, error) {
	d, err := r.driverFor(didURL)
	if err != nil {
		return &did.DereferenceResult{Errors: []did.ErrorKind{did.ErrorInvalidDid}}, nil
	}
	return d.Dereference(ctx, didURL)
}
