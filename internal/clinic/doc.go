// Package clinic defines the domain records managed by OrthoPrice
// (patients, consumable materials, billable procedures), the wire
// representation used by the remote collection API, and the tolerant
// field normalization applied to create/update input.
//
// Records are plain values. The store layer owns persistence; a record
// held by a caller is a point-in-time snapshot and is never written
// back implicitly.
package clinic
