// Package models defines the track data shown by tracklist.
//
// A [Track] embeds its [Album], which carries the ordered cover [Image] list and [Artist] list.
// The first image and first artist are the representative values used when only one can be
// displayed; see [Album.CoverURL] and [Album.ArtistName].
//
// Values are plain data: the session owns the fetched slice and views receive copies.
package models
