package client

import (
	"fmt"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// Router maps client types to their light-client modules. Routes are fixed
// at engine construction; adding a client type is an interface
// implementation plus a route, never a core change.
type Router struct {
	routes map[string]LightClientModule
	sealed bool
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{routes: make(map[string]LightClientModule)}
}

// AddRoute registers a module under its client type. It panics on duplicate
// registration or when the router is sealed: routing is host wiring, not
// message input.
func (r *Router) AddRoute(module LightClientModule) *Router {
	if r.sealed {
		panic(fmt.Sprintf("router sealed; cannot register client type %s", module.ClientType()))
	}
	clientType := module.ClientType()
	if r.HasRoute(clientType) {
		panic(fmt.Sprintf("route %s has already been registered", clientType))
	}
	r.routes[clientType] = module
	return r
}

// Seal prevents further route registration.
func (r *Router) Seal() {
	r.sealed = true
}

// HasRoute reports whether a module is registered for the client type.
func (r *Router) HasRoute(clientType string) bool {
	_, ok := r.routes[clientType]
	return ok
}

// GetRoute returns the module for the client type.
func (r *Router) GetRoute(clientType string) (LightClientModule, error) {
	module, ok := r.routes[clientType]
	if !ok {
		return nil, sdkerrors.Wrap(ErrClientTypeNotFound, clientType)
	}
	return module, nil
}
