// package session owns the implicit-grant handshake and the single track fetch that follows it.
//
// A [Session] is not safe for concurrent use. The TUI mutates it only from its update loop;
// [Session.Fetch] is the one method meant to run elsewhere, and it reads configuration only.
//
//	Unauthenticated --redirect ok--> Fetching --tracks--> Ready
//	       ^                             |
//	       +--denied                     +--error--> Empty
package session
