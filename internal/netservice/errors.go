package netservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/ooni/netservice/internal/model"
	"github.com/ooni/netservice/internal/netxlite"
)

// ErrInvalidHostname indicates that a target hostname cannot be
// converted to ASCII and hence cannot be resolved.
var ErrInvalidHostname = errors.New("netservice: received invalid hostname")

// newInvalidHostnameError wraps the error occurred normalizing the target hostname.
func newInvalidHostnameError(target *model.Target, err error) error {
	return netxlite.NewErrWrapper(
		classifyAs(netxlite.FailureInvalidHostname),
		netxlite.HostnameOperation,
		fmt.Errorf("%w %q: %w", ErrInvalidHostname, target.Hostname, err),
	)
}

// newInvalidEndpointError wraps the error occurred building the connectable.
func newInvalidEndpointError(err error) error {
	return netxlite.NewErrWrapper(
		classifyAs(netxlite.FailureInvalidEndpoint),
		netxlite.EnumerateOperation,
		err,
	)
}

// newServiceLookupError wraps the error occurred looking up the service.
func newServiceLookupError(err error) error {
	return netxlite.NewErrWrapper(netxlite.ClassifyResolverError, netxlite.ServiceLookupOperation, err)
}

// newEnumerateError wraps the error returned by a per-host enumerator.
func newEnumerateError(err error) error {
	return netxlite.NewErrWrapper(netxlite.ClassifyResolverError, netxlite.EnumerateOperation, err)
}

// newInterruptedError wraps the error returned because the context is done,
// which MUST be the case when calling this function.
func newInterruptedError(ctx context.Context, err error) error {
	cause := ctx.Err()
	switch {
	case err == nil:
		err = cause
	case !errors.Is(err, cause):
		err = fmt.Errorf("%w: %w", cause, err)
	}
	return &netxlite.ErrWrapper{
		Failure:    netxlite.ClassifyGenericError(cause),
		Operation:  netxlite.EnumerateOperation,
		WrappedErr: err,
	}
}

func classifyAs(failure string) func(error) string {
	return func(error) string {
		return failure
	}
}
