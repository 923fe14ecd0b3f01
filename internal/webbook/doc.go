// Package webbook is the HTTP transport for the fluid-properties service.
//
// Each run makes two ordered GETs over the same query: a prime call that makes
// the service compute the table, then a data call that returns it. Every call
// is attempted once; failures surface as *NetworkError.
package webbook
