// Package preflight provides readiness checks for the filesystem paths and
// remote endpoints fluids depends on.
//
// The CLI "fluids check" command runs RunAll and renders one status line per
// result. Network checks are skipped when the caller asks for an offline run.
package preflight
