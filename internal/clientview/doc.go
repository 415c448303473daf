// Package clientview is the client-side model of the collection: the
// last fetched snapshot, the filter and sort settings, and a single-slot
// delete undo buffer. Display order comes from the pure Project function.
package clientview
