// Package runtime provides the execution context for ksapply commands.
//
// It carries the loaded configuration and the logger, and opens the
// upstream repository, the upstream oracle and the quilt stack on demand.
package runtime
