// Package alias implements the two-pass alias expansion applied to borg
// argument lists before execution.
//
// An alias rewrites the first argument only. Resolution runs one pass
// against the repository-scoped table, then an independent pass against the
// global table, so a repository alias may expand into a command that a
// global alias of the same name picks up afterward. Within a pass each
// alias name is applied at most once, which makes self-referential
// definitions terminate after a single expansion.
package alias

import "strings"

// Table maps an alias name to its expansion. Expansions are kept as raw
// strings; they are split on single spaces only to splice tokens during
// resolution, so rejoining the result with spaces restores the expansion
// byte for byte and any shell syntax inside it reaches the executing shell
// uninterpreted.
type Table map[string]string

// Resolve expands args first against repoAliases, then against
// globalAliases. An empty argument list is returned unchanged, and an
// unmatched first token passes through untouched.
func Resolve(args []string, repoAliases, globalAliases Table) []string {
	if len(args) == 0 {
		return args
	}

	args = expand(args, repoAliases)
	return expand(args, globalAliases)
}

// expand performs a single resolution pass. Each alias name fires at most
// once; an expansion whose first token names an already-used alias stops
// the pass with the current result.
func expand(args []string, table Table) []string {
	used := make(map[string]bool, len(table))

	for len(args) > 0 {
		value, ok := table[args[0]]
		if !ok || used[args[0]] {
			break
		}
		used[args[0]] = true

		// Split on single spaces, not runs of whitespace: a doubled space
		// inside a quoted argument must survive the splice-and-rejoin
		// round trip.
		var expansion []string
		if value != "" {
			expansion = strings.Split(value, " ")
		}
		args = append(expansion, args[1:]...)
	}

	return args
}
