// Package actions provides the logic behind ksapply commands.
//
// Each action corresponds to a command (sort, insert, goto, ...) and
// combines the series document, the patch tags, the upstream oracle and the
// quilt stack to produce its answer.
//
// Key patterns:
//   - Actions accept runtime.Context which provides Config, Splog and collaborators
//   - Answers are printed through Splog so that they can be piped
//   - Expected outcomes that are not successes (nothing to do, commit already
//     present) are reported as sentinel errors the CLI turns into exit codes
package actions
