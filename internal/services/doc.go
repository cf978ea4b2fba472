// Package services defines the [TrackSource] interface for music providers and implements it for Spotify.
//
// # Spotify Implementation
//
// [SpotifyService] builds implicit-grant authorization URLs with zmb3/spotify's auth package and
// performs API calls with a zmb3/spotify client. Each call gets an [http.Client] whose transport
// adds the bearer token from an [oauth2.StaticTokenSource] and waits on a shared rate limiter.
// Tokens are never refreshed; an expired token surfaces as [shared.ErrTokenExpired].
//
// # Response Validation
//
// Provider responses are converted to [models.Track] in one step:
//   - items without an ID, or repeating an earlier ID, are dropped
//   - negative durations become zero
//   - missing images, artists, external URL and preview URL are left empty
//   - album track listings carry no album, so the track's own artists stand in for album artists
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrTokenExpired] : HTTP 401, reauthorization needed
//   - [shared.ErrAPIRequest] : any other non-2xx status, transport or decoding failure
//   - [shared.ErrMissingCredentials] : no client ID configured
package services
