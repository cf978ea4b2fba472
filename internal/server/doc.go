// Package server provides HTTP routing, middleware, and the OAuth redirect listener.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Redirect Handler
//
// [RedirectHandler] receives the implicit-grant redirect. The provider appends the access token to the
// URL fragment, which browsers never send to a server, so a bare request to the redirect path is
// answered with a small relay page that re-requests the same path with the fragment moved into the
// query string. Requests carrying access_token or error are passed to a delivery function and
// answered with a result page.
//
// The handler does not interpret the parameters; the session validates state and token.
// Delivery is not limited to one request so a user can retry after cancelling.
//
// # Listener
//
// [Listen] binds the loopback address taken from the configured redirect URI and serves in the
// background for the lifetime of the TUI, or until a token arrives for the tracks command.
package server
