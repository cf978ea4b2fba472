// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The root screen is a function of the [session.Session] state:
//   - Unauthenticated: the connect control, which opens the authorization page
//   - Fetching: a spinner while the single request runs
//   - Ready: the track list, one row per track in the order returned
//   - Empty: a short note that tracks couldn't be loaded
//
// Rows push a [SongDetail] route (enter) or a [SongPreview] route (p) onto a [Navigator].
// Both screens open their URL in the system browser; esc pops back to the list.
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Redirects arrive from the HTTP listener through [RedirectMsg] and are applied to the session in Update.
package ui
