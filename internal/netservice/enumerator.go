package netservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/ooni/netservice/internal/model"
	"github.com/ooni/netservice/internal/runtimex"
)

// enumeratorID is used to assign unique IDs to enumerators in logs.
var enumeratorID = &atomic.Int64{}

// Enumerator yields the addresses of a network service. You MUST use the
// NewEnumerator method of [*ServiceLocator] to construct.
//
// An Enumerator is not safe for concurrent use. Calling NextAsync, or Next,
// while a NextAsync request is pending causes a panic.
type Enumerator struct {
	config     *Config
	locator    *ServiceLocator
	logger     model.Logger
	proxyAware bool

	// these fields are only accessed by the request in progress
	cursor    int
	deferred  error
	emitted   bool
	resolved  bool
	sub       model.AddressEnumerator
	subTarget *model.Target
	targets   []*model.Target

	// mu protects pending
	mu      sync.Mutex
	pending *asyncRequest
}

var _ model.AddressEnumerator = &Enumerator{}

func newEnumerator(locator *ServiceLocator, config *Config, proxyAware bool) *Enumerator {
	id := enumeratorID.Add(1)
	return &Enumerator{
		config:     config,
		locator:    locator,
		logger:     model.NewPrefixLogger(fmt.Sprintf("[#%d]", id), model.ValidLoggerOrDefault(config.Logger)),
		proxyAware: proxyAware,
	}
}

// Next returns the next address or an error. At the end of the addresses,
// Next returns io.EOF or, when all the targets failed, the first error that
// caused us to skip a target. A failed service lookup is returned immediately and
// retried on the next call. When the context is done, Next returns an error
// and the following call resumes from where we stopped.
func (e *Enumerator) Next(ctx context.Context) (net.Addr, error) {
	runtimex.PanicIfTrue(e.isPending(), "netservice: Next called while NextAsync is pending")

	if !e.resolved {
		targets, err := e.locator.lookupTargets(ctx, e.config.Resolver, e.logger)
		if err != nil {
			return nil, e.serviceLookupFailed(ctx, err)
		}
		e.setTargets(targets)
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, newInterruptedError(ctx, nil)
		}
		if e.sub == nil {
			if !e.advance() {
				return e.exhausted()
			}
			continue
		}
		addr, err := e.sub.Next(ctx)
		if done, addr, err := e.pulled(ctx, addr, err); done {
			return addr, err
		}
	}
}

// Close releases the active sub-enumerator. This method panics if
// a NextAsync request is pending.
func (e *Enumerator) Close() error {
	runtimex.PanicIfTrue(e.isPending(), "netservice: Close called while NextAsync is pending")
	e.dropSub()
	return nil
}

// String returns the name of the service we're enumerating.
func (e *Enumerator) String() string {
	return e.locator.String()
}

func (e *Enumerator) isPending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending != nil
}

func (e *Enumerator) setTargets(targets []*model.Target) {
	e.targets, e.cursor, e.resolved = targets, 0, true
}

func (e *Enumerator) serviceLookupFailed(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return newInterruptedError(ctx, err)
	}
	return newServiceLookupError(err)
}

// advance moves to the next target and returns false if there are no more
// targets. On success, the sub-enumerator is set unless we skipped the
// target because of an error.
func (e *Enumerator) advance() bool {
	if e.cursor >= len(e.targets) {
		return false
	}
	target := e.targets[e.cursor]
	e.cursor++
	hostname, err := e.config.normalizeHostname(target.Hostname)
	if err != nil {
		e.skip(target, "invalid_hostname", newInvalidHostnameError(target, err))
		return true
	}
	connectable, err := e.config.NewConnectable(e.locator.Scheme(), hostname, target.Port)
	if err != nil {
		e.skip(target, "invalid_endpoint", newInvalidEndpointError(err))
		return true
	}
	e.logger.Debugf("netservice: trying %s", connectable.String())
	if e.proxyAware {
		e.sub = connectable.ProxyEnumerate()
	} else {
		e.sub = connectable.Enumerate()
	}
	e.subTarget = target
	return true
}

// pulled handles the result of pulling from the sub-enumerator and returns
// whether the current request is done along with its result.
func (e *Enumerator) pulled(ctx context.Context, addr net.Addr, err error) (bool, net.Addr, error) {
	switch {
	case err == nil && addr != nil:
		metricAddressesEmitted.Inc()
		e.emitted = true
		return true, addr, nil

	case err == nil || errors.Is(err, io.EOF):
		e.dropSub()
		return false, nil, nil

	case ctx.Err() != nil:
		// keep the sub-enumerator so that the next call resumes
		return true, nil, newInterruptedError(ctx, err)

	default:
		e.skip(e.subTarget, "enumerate", newEnumerateError(err))
		e.dropSub()
		return false, nil, nil
	}
}

// skip records that we skipped a target because of err. The first error wins.
func (e *Enumerator) skip(target *model.Target, reason string, err error) {
	e.logger.Warnf("netservice: skipping %s: %s", target.String(), err.Error())
	metricTargetsSkipped.WithLabelValues(reason).Inc()
	if e.deferred == nil {
		e.deferred = err
	}
}

// exhausted returns io.EOF or, if we did not return any address, the
// deferred error. In both cases, we clear the deferred error.
func (e *Enumerator) exhausted() (net.Addr, error) {
	err := e.deferred
	e.deferred = nil
	if err != nil && !e.emitted {
		metricDeferredErrorsSurfaced.Inc()
		return nil, err
	}
	return nil, io.EOF
}

func (e *Enumerator) dropSub() {
	if closer, good := e.sub.(io.Closer); good {
		closer.Close()
	}
	e.sub, e.subTarget = nil, nil
}
