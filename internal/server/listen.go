package server

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/desertthunder/tracklist/internal/shared"
)

// Listen binds addr and serves handler in the background.
//
// Serve errors other than [http.ErrServerClosed] are sent on the returned channel, which is closed when serving stops.
func Listen(addr string, handler http.Handler) (*http.Server, <-chan error, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: listen on %s: %v", shared.ErrServiceUnavailable, addr, err)
	}

	srv := &http.Server{
		Addr:              ln.Addr().String(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		defer close(errs)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	return srv, errs, nil
}
