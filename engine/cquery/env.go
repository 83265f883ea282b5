package cquery

import (
	"sync"

	"github.com/npillmayer/cquery/core"
	"github.com/npillmayer/cquery/core/parameters"
	"github.com/npillmayer/cquery/engine/observe"
)

// Env is an environment scope of a host. Every host has a root scope,
// which may have named sub-scopes. Scopes carry engine parameters;
// parameters of a sub-scope created without explicit parameters fall back
// to the root's.
type Env struct {
	host   observe.Host
	scope  string
	params *parameters.Registers
	root   *Env
	scopes map[string]*Env
	engine *Engine
}

var environments = struct {
	sync.Mutex
	roots map[observe.Host]*Env
}{roots: make(map[observe.Host]*Env)}

// Init returns the environment of a host, creating it if necessary.
// With an empty scope, the root scope is returned, else the named
// sub-scope.
//
// A scope is initialized once. Calling Init again with nil parameters, or
// with the very same parameters, returns the existing scope; any other
// parameters fail with ECONFLICT.
func Init(host observe.Host, scope string, params *parameters.Registers) (*Env, error) {
	if host == nil {
		return nil, core.Error(core.EINVALID, "cannot initialize environment without host")
	}
	environments.Lock()
	defer environments.Unlock()
	root := environments.roots[host]
	if root == nil {
		rootParams := parameters.NewRegisters()
		if scope == "" && params != nil {
			rootParams = params
		}
		root = &Env{host: host, params: rootParams, scopes: make(map[string]*Env)}
		environments.roots[host] = root
		tracer().Infof("initialized environment for host %T", host)
	} else if scope == "" && params != nil && root.params != params {
		return nil, core.Error(core.ECONFLICT,
			"host has already been initialized with different parameters")
	}
	if scope == "" {
		return root, nil
	}
	sub := root.scopes[scope]
	if sub == nil {
		if params == nil {
			params = root.params.Derive()
		}
		sub = &Env{host: host, scope: scope, params: params, root: root}
		root.scopes[scope] = sub
		tracer().Infof("initialized environment scope %q", scope)
	} else if params != nil && sub.params != params {
		return nil, core.Error(core.ECONFLICT,
			"scope %q has already been initialized with different parameters", scope)
	}
	return sub, nil
}

// Release forgets the environment of a host, including all its scopes.
// Handles of its engines stay alive until disposed.
func Release(host observe.Host) {
	environments.Lock()
	defer environments.Unlock()
	delete(environments.roots, host)
}

// Scope returns the name of the scope, or "" for the root scope.
func (env *Env) Scope() string {
	return env.scope
}

// Host returns the host env belongs to.
func (env *Env) Host() observe.Host {
	return env.host
}

// Params returns the engine parameters of env.
func (env *Env) Params() *parameters.Registers {
	return env.params
}

// Root returns the root scope of env's host.
func (env *Env) Root() *Env {
	if env.root == nil {
		return env
	}
	return env.root
}

// Engine returns the engine of this scope, creating it on first use.
func (env *Env) Engine() *Engine {
	environments.Lock()
	defer environments.Unlock()
	if env.engine == nil {
		env.engine = New(env.host, WithParams(env.params))
	}
	return env.engine
}
