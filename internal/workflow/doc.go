// Package workflow orchestrates the split-planning pipeline: session setup
// and resumption, manifest-driven directory creation, and plan amendment.
//
// Operations here are invocation-scoped and side-effect minimal. Each one
// re-derives state from the planning directory before acting, so a run that
// was interrupted at any point can be repeated safely. The package also owns
// the error taxonomy commands use to classify failures for callers.
package workflow
