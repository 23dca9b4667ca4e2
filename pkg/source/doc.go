// Package source retrieves hierarchical datasets.
//
// A location is a preset name ("videogames"), an http(s) URL or a path to a
// local JSON file. [Client.Fetch] resolves the location, downloads or reads
// the document, and decodes it into a [hierarchy.RawRecord]. Remote bodies
// are cached through a [cache.Cache] so repeated renders do not hit the
// network; local files are always read fresh.
//
// Every failure is reported as a FETCH_FAILED error from pkg/errors, except
// for a document that downloads fine but does not decode, which is
// MALFORMED_RECORD.
package source
