// Package cli implements the borg-helper commands.
package cli

import (
	"context"
)

// RunParams contains parameters for a repository dispatch
type RunParams struct {
	LogLevel    string
	Interactive bool
	Repository  string
	Args        []string
}

// Run looks up the repository, resolves aliases and executes the resulting
// borg command, forwarding its exit code through the returned error.
func Run(ctx context.Context, params RunParams) error {
	c, err := initializeComponents(params.LogLevel, params.Interactive, nil)
	if err != nil {
		return err
	}

	repo, err := c.registry.Get(params.Repository)
	if err != nil {
		return err
	}

	// Composite commands wrap several borg invocations.
	if len(params.Args) > 0 {
		switch params.Args[0] {
		case "list-archives":
			return listArchives(ctx, c, repo, params.Args[1:])
		case "list-removed-items":
			return listRemovedItems(ctx, c, repo, params.Args[1:])
		}
	}

	cmd, err := c.runner.Build(c.cfg, repo, params.Args)
	if err != nil {
		return err
	}

	return c.runner.Run(ctx, cmd)
}
