// Package request turns a calculation request into the service's query
// parameters.
//
// Each variant maps to a fixed parameter template. The builder emits the
// template in a stable order followed by the shared parameters (substance ID,
// reference state, the seven unit tokens, digits) and produces two URLs over
// the same query: the prime URL, which makes the service compute and cache the
// table, and the data URL, which returns the table as wide text. The prime
// call must complete before the data call returns populated results.
package request
