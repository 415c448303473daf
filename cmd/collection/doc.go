// Command collection is the terminal front end for the vinyl collection
// server. It keeps the same client-side rules as any other front end:
// filters and sort run locally over the fetched snapshot, only the
// free-text search goes to the server, and the last deletion can be
// undone, even from a later invocation.
package main
