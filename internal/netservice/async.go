package netservice

//
// Continuation style enumeration
//

import (
	"context"
	"net"

	"github.com/ooni/netservice/internal/model"
	"github.com/ooni/netservice/internal/runtimex"
)

// asyncState is the state of an [*asyncRequest].
type asyncState int

const (
	// stateResolvingTargets means we're waiting for the service lookup.
	stateResolvingTargets = asyncState(iota)

	// stateAdvancingTarget means we need to select the sub-enumerator.
	stateAdvancingTarget

	// statePullingSubEnumerator means we're waiting for the sub-enumerator.
	statePullingSubEnumerator

	// stateCompleted means we've invoked the callback.
	stateCompleted
)

// asyncRequest is a NextAsync request in progress.
type asyncRequest struct {
	callback func(result *model.AsyncResult)
	ctx      context.Context
	state    asyncState
}

// NextAsync is like Next but calls callback, possibly from another goroutine,
// once the next address or an error is available. Pass the result to
// NextFinish to obtain the address and the error.
//
// This method panics if there is already a pending request.
func (e *Enumerator) NextAsync(ctx context.Context, callback func(result *model.AsyncResult)) {
	runtimex.Assert(callback != nil, "netservice: passed nil callback")
	req := &asyncRequest{
		callback: callback,
		ctx:      ctx,
		state:    stateResolvingTargets,
	}
	e.mu.Lock()
	busy := e.pending != nil
	if !busy {
		e.pending = req
	}
	e.mu.Unlock()
	runtimex.PanicIfTrue(busy, "netservice: NextAsync called while another request is pending")
	if e.resolved {
		req.state = stateAdvancingTarget
	}
	e.run(req)
}

// NextFinish returns the address or the error of a NextAsync request. This
// method panics if result was not produced by this enumerator.
func (e *Enumerator) NextFinish(result *model.AsyncResult) (net.Addr, error) {
	runtimex.Assert(result != nil, "netservice: passed nil result")
	runtimex.Assert(result.Source == e, "netservice: result produced by another enumerator")
	return result.Result.Get()
}

// run drives req until it completes or suspends waiting for a collaborator.
func (e *Enumerator) run(req *asyncRequest) {
	for {
		switch req.state {
		case stateResolvingTargets:
			e.locator.lookupTargetsAsync(req.ctx, e.config.Resolver, e.logger,
				func(targets []*model.Target, err error) {
					if err != nil {
						e.complete(req, nil, e.serviceLookupFailed(req.ctx, err))
						return
					}
					e.setTargets(targets)
					req.state = stateAdvancingTarget
					e.run(req)
				})
			return

		case stateAdvancingTarget:
			if err := req.ctx.Err(); err != nil {
				e.complete(req, nil, newInterruptedError(req.ctx, nil))
				return
			}
			if e.sub == nil {
				if !e.advance() {
					addr, err := e.exhausted()
					e.complete(req, addr, err)
					return
				}
				continue
			}
			req.state = statePullingSubEnumerator

		case statePullingSubEnumerator:
			sub := e.sub
			sub.NextAsync(req.ctx, func(result *model.AsyncResult) {
				addr, err := sub.NextFinish(result)
				if done, addr, err := e.pulled(req.ctx, addr, err); done {
					e.complete(req, addr, err)
					return
				}
				req.state = stateAdvancingTarget
				e.run(req)
			})
			return

		default:
			return
		}
	}
}

// complete marks req as completed and invokes its callback.
func (e *Enumerator) complete(req *asyncRequest, addr net.Addr, err error) {
	e.mu.Lock()
	owned := e.pending == req
	if owned {
		e.pending = nil
	}
	e.mu.Unlock()
	runtimex.Assert(owned, "netservice: completing a request that is not pending")
	req.state = stateCompleted
	req.callback(model.NewAsyncResult(e, addr, err))
}
