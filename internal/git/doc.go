// Package git provides access to the upstream Linux repository.
//
// Revisions are resolved in process through go-git. History walks that go-git
// is slow at, such as the rev-list runs that index upstream heads, shell out
// to git through a CommandRunner.
package git
