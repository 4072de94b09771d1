package netxlite

//
// Continuation-style service lookups
//

import (
	"context"

	"github.com/ooni/netservice/internal/model"
)

// NewAsyncResolver returns a [model.ServiceResolver] that implements
// LookupServiceAsync by running LookupService in a background goroutine.
func NewAsyncResolver(reso model.Resolver) model.ServiceResolver {
	return &asyncResolver{reso}
}

type asyncResolver struct {
	model.Resolver
}

// LookupServiceAsync implements model.ServiceResolver.
func (r *asyncResolver) LookupServiceAsync(ctx context.Context, service, protocol, domain string,
	callback func(targets []*model.Target, err error)) {
	go func() {
		callback(r.Resolver.LookupService(ctx, service, protocol, domain))
	}()
}
