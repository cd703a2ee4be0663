// Package source turns the two kinds of analysis input into one payload.
//
// A Source is either LocalBytes (a file the user picked) or a
// RemoteReference (a Drive file picked from the listing). A Resolver reads
// the bytes, fills in a missing MIME type by sniffing the content and
// returns a Payload holding the base64 data the analyzer expects.
package source
