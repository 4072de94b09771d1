package netservice

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ooni/netservice/internal/logx"
	"github.com/ooni/netservice/internal/model"
	"github.com/ooni/netservice/internal/runtimex"
)

// ServiceLocator names a network service. The zero value is invalid; please,
// use [NewServiceLocator] to construct.
//
// A ServiceLocator is safe for concurrent use. All the enumerators created
// from the same locator share its cache of resolved targets.
type ServiceLocator struct {
	domain   string
	protocol string
	service  string

	// mu protects the fields below
	mu        sync.Mutex
	flight    *lookupFlight
	observers []func(scheme string)
	scheme    string
	targets   []*model.Target
}

// NewServiceLocator creates a new [*ServiceLocator] for the given service
// (e.g., "xmpp-client"), protocol (e.g., "tcp"), and domain.
func NewServiceLocator(service, protocol, domain string) *ServiceLocator {
	return &ServiceLocator{
		domain:   domain,
		protocol: protocol,
		service:  service,
	}
}

// Service returns the service name.
func (sl *ServiceLocator) Service() string {
	return sl.service
}

// Protocol returns the protocol name.
func (sl *ServiceLocator) Protocol() string {
	return sl.protocol
}

// Domain returns the domain name.
func (sl *ServiceLocator) Domain() string {
	return sl.domain
}

// Scheme returns the URI scheme used when building the connectable for each
// target, which defaults to the service name.
func (sl *ServiceLocator) Scheme() string {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.scheme == "" {
		return sl.service
	}
	return sl.scheme
}

// SetScheme overrides the URI scheme. Passing an empty string restores the
// default. Changing the scheme does not invalidate the cached targets.
func (sl *ServiceLocator) SetScheme(scheme string) {
	sl.mu.Lock()
	if sl.scheme == scheme {
		sl.mu.Unlock()
		return
	}
	sl.scheme = scheme
	effective := scheme
	if effective == "" {
		effective = sl.service
	}
	observers := append([]func(string){}, sl.observers...)
	sl.mu.Unlock()
	for _, fx := range observers {
		fx(effective)
	}
}

// OnSchemeChange registers fx to be called with the new effective scheme
// every time SetScheme changes the scheme.
func (sl *ServiceLocator) OnSchemeChange(fx func(scheme string)) {
	runtimex.Assert(fx != nil, "netservice: passed nil observer")
	sl.mu.Lock()
	sl.observers = append(sl.observers, fx)
	sl.mu.Unlock()
}

// String returns the name we query, e.g., "_xmpp-client._tcp.example.com".
func (sl *ServiceLocator) String() string {
	return fmt.Sprintf("_%s._%s.%s", sl.service, sl.protocol, sl.domain)
}

// NewEnumerator creates a new [*Enumerator] for this service. When proxyAware
// is true, the enumerator yields [*model.ProxyAddress] values obtained by
// calling ProxyEnumerate on each target's connectable.
//
// This function panics if config lacks a MANDATORY field.
func (sl *ServiceLocator) NewEnumerator(config *Config, proxyAware bool) *Enumerator {
	runtimex.Assert(config != nil, "netservice: passed nil config")
	runtimex.Assert(config.Resolver != nil, "netservice: passed nil Resolver")
	runtimex.Assert(config.NewConnectable != nil, "netservice: passed nil NewConnectable")
	return newEnumerator(sl, config, proxyAware)
}

// Enumerate is equivalent to NewEnumerator(config, false).
func (sl *ServiceLocator) Enumerate(config *Config) *Enumerator {
	return sl.NewEnumerator(config, false)
}

// ProxyEnumerate is equivalent to NewEnumerator(config, true).
func (sl *ServiceLocator) ProxyEnumerate(config *Config) *Enumerator {
	return sl.NewEnumerator(config, true)
}

// lookupFlight is a service lookup in progress. Other lookups join it
// rather than querying the resolver again.
type lookupFlight struct {
	// done is closed once targets and err are set
	done    chan struct{}
	err     error
	targets []*model.Target

	// waiters is protected by the locator's mutex
	waiters []func(targets []*model.Target, err error)
}

// startOrJoin returns the cached targets, if any. Otherwise, it returns the
// lookup in progress, starting a new one if needed, in which case owner is
// true and the caller MUST perform the lookup and call finish. When the
// lookup is in progress and waiter is not nil, we register it to be
// called when the lookup completes.
func (sl *ServiceLocator) startOrJoin(
	waiter func(targets []*model.Target, err error)) (targets []*model.Target, flight *lookupFlight, owner bool) {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if len(sl.targets) > 0 {
		return sl.targets, nil, false
	}
	if sl.flight != nil {
		if waiter != nil {
			sl.flight.waiters = append(sl.flight.waiters, waiter)
		}
		return nil, sl.flight, false
	}
	sl.flight = &lookupFlight{done: make(chan struct{})}
	return nil, sl.flight, true
}

// finish completes the given flight and populates the cache on success.
func (sl *ServiceLocator) finish(flight *lookupFlight, targets []*model.Target, err error) {
	sl.mu.Lock()
	if err == nil && len(targets) > 0 {
		sl.targets = targets
	}
	sl.flight = nil
	flight.targets, flight.err = targets, err
	waiters := flight.waiters
	flight.waiters = nil
	close(flight.done)
	sl.mu.Unlock()
	for _, fx := range waiters {
		fx(targets, err)
	}
}

// cachedTargets returns the cached targets or nil.
func (sl *ServiceLocator) cachedTargets() []*model.Target {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.targets
}

// lookupTargets returns the cached targets or looks them up, blocking
// until the lookup is complete or the context is done.
func (sl *ServiceLocator) lookupTargets(
	ctx context.Context, reso model.ServiceResolver, logger model.Logger) ([]*model.Target, error) {
	for {
		targets, flight, owner := sl.startOrJoin(nil)
		if flight == nil {
			return targets, nil
		}
		if owner {
			ol := sl.newOperationLogger(logger)
			targets, err := reso.LookupService(ctx, sl.service, sl.protocol, sl.domain)
			sl.lookupDone(ol, targets, err)
			sl.finish(flight, targets, err)
			return targets, err
		}
		logger.Debugf("netservice: joining lookup of %s in progress", sl.String())
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-flight.done:
		}
		if sl.ownerWasInterrupted(ctx, flight.err) {
			continue
		}
		return flight.targets, flight.err
	}
}

// lookupTargetsAsync is like lookupTargets but calls callback when done.
func (sl *ServiceLocator) lookupTargetsAsync(ctx context.Context, reso model.ServiceResolver,
	logger model.Logger, callback func(targets []*model.Target, err error)) {
	waiter := &lookupWaiter{callback: callback}
	targets, flight, owner := sl.startOrJoin(func(targets []*model.Target, err error) {
		if sl.ownerWasInterrupted(ctx, err) {
			if waiter.claim() {
				sl.lookupTargetsAsync(ctx, reso, logger, callback)
			}
			return
		}
		waiter.deliver(targets, err)
	})
	switch {
	case flight == nil:
		callback(targets, nil)
	case owner:
		ol := sl.newOperationLogger(logger)
		reso.LookupServiceAsync(ctx, sl.service, sl.protocol, sl.domain,
			func(targets []*model.Target, err error) {
				sl.lookupDone(ol, targets, err)
				sl.finish(flight, targets, err)
				callback(targets, err)
			})
	default:
		logger.Debugf("netservice: joining lookup of %s in progress", sl.String())
		waiter.watch(ctx)
	}
}

// lookupWaiter delivers the result of a lookup we joined at most once.
type lookupWaiter struct {
	callback func(targets []*model.Target, err error)

	// mu protects done and stop
	mu   sync.Mutex
	done bool
	stop func() bool
}

// claim returns true only the first time it is called and stops watching
// the context, if we were watching it.
func (w *lookupWaiter) claim() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		return false
	}
	w.done = true
	if w.stop != nil {
		w.stop()
	}
	return true
}

func (w *lookupWaiter) deliver(targets []*model.Target, err error) {
	if w.claim() {
		w.callback(targets, err)
	}
}

// watch delivers the context error if ctx is done before the lookup completes.
func (w *lookupWaiter) watch(ctx context.Context) {
	stop := context.AfterFunc(ctx, func() {
		w.deliver(nil, ctx.Err())
	})
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		stop()
		return
	}
	w.stop = stop
}

// ownerWasInterrupted returns true when the lookup we joined failed because
// the context of its owner is done while our own context is still valid.
func (sl *ServiceLocator) ownerWasInterrupted(ctx context.Context, err error) bool {
	return ctx.Err() == nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}

func (sl *ServiceLocator) newOperationLogger(logger model.Logger) *logx.OperationLogger {
	return logx.NewOperationLogger(logger, "netservice: lookup %s", sl.String())
}

func (sl *ServiceLocator) lookupDone(ol *logx.OperationLogger, targets []*model.Target, err error) {
	ol.Stop(err)
	if err != nil {
		metricServiceLookups.WithLabelValues("error").Inc()
		return
	}
	metricServiceLookups.WithLabelValues("ok").Inc()
	for _, target := range targets {
		ol.Logger.Debugf("netservice: %s: target %s", sl.String(), target.String())
	}
}
