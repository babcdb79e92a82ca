// Package reply turns raw generation replies into question records.
//
// Replies are only loosely JSON: models wrap them in code fences, break
// strings across lines and escape quotes they should not. Parse normalizes
// and repairs a reply before checking it against the expected shape, and the
// Aggregator classifies the parsed elements into a capped ResultSet.
package reply
