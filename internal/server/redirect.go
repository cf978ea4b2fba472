package server

import (
	"fmt"
	"net/http"
	"net/url"
)

// RedirectHandler serves the OAuth redirect path for the implicit grant.
//
// Implements the Handler interface for registration with a Router.
type RedirectHandler struct {
	path    string
	deliver func(*url.URL)
}

// NewRedirectHandler creates a handler for path that passes completed redirects to deliver.
//
// deliver is called from the server goroutine.
func NewRedirectHandler(path string, deliver func(*url.URL)) *RedirectHandler {
	if path == "" {
		path = "/"
	}
	return &RedirectHandler{path: path, deliver: deliver}
}

// Routes returns the HTTP routes this handler serves.
func (h *RedirectHandler) Routes() []string {
	return []string{h.path}
}

// ServeHTTP handles the redirect request.
//
// A request without access_token or error gets the relay page; any other request is delivered.
func (h *RedirectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	switch {
	case q.Get("error") != "":
		h.deliver(cloneURL(r.URL))
		writePage(w, http.StatusOK, cancelledPage)
	case q.Get("access_token") != "":
		h.deliver(cloneURL(r.URL))
		writePage(w, http.StatusOK, successPage)
	default:
		writePage(w, http.StatusOK, relayPage)
	}
}

func cloneURL(u *url.URL) *url.URL {
	c := *u
	return &c
}

func writePage(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

const pageStyle = `
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #191414; }
        .container { text-align: center; background: #282828; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.4); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #B3B3B3; margin: 0; }
    </style>`

const successPage = `<!DOCTYPE html>
<html>
<head>
    <title>Connected</title>` + pageStyle + `
</head>
<body>
    <div class="container">
        <h1>✓ Connected to Spotify</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`

const cancelledPage = `<!DOCTYPE html>
<html>
<head>
    <title>Authorization Cancelled</title>` + pageStyle + `
</head>
<body>
    <div class="container">
        <h1>Authorization cancelled</h1>
        <p>Return to the terminal to try again.</p>
    </div>
</body>
</html>
`

const relayPage = `<!DOCTYPE html>
<html>
<head>
    <title>Connecting…</title>` + pageStyle + `
</head>
<body>
    <div class="container">
        <h1>Connecting…</h1>
        <p id="msg">Finishing authorization.</p>
    </div>
    <script>
        var fragment = window.location.hash.substring(1);
        if (fragment) {
            window.location.replace(window.location.pathname + "?" + fragment);
        } else {
            document.getElementById("msg").textContent = "No authorization response was found.";
        }
    </script>
</body>
</html>
`
