// Package staleness decides whether an inlined HTML document must be rebuilt.
//
// A document is stale when no prior output exists for it, or when the
// document itself or any asset it inlines (a link or script element carrying
// an inline attribute) was modified after the prior output. Referenced
// assets that no longer exist are ignored.
package staleness
