package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/borg-helper/borg-helper/internal/berrors"
	"github.com/borg-helper/borg-helper/internal/config"
	"github.com/charmbracelet/lipgloss"
)

var removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

// listArchives runs "list --short" and then a full "list ::<archive>" for
// every archive, appending any extra borg list arguments. The highest
// per-archive exit code becomes the overall exit code. A declined
// confirmation skips the archive instead of aborting the whole walk.
func listArchives(ctx context.Context, c *components, repo config.Repository, extraArgs []string) error {
	namesCmd, err := c.runner.Build(c.cfg, repo, []string{"list", "--short"})
	if err != nil {
		return err
	}

	out, err := c.runner.Output(ctx, namesCmd)
	if err != nil {
		return err
	}

	highest := 0
	for _, archive := range strings.Split(string(out), "\n") {
		archive = strings.TrimSpace(archive)
		if archive == "" {
			continue
		}

		args := append([]string{"list", "::" + archive}, extraArgs...)
		cmd, err := c.runner.Build(c.cfg, repo, args)
		if err != nil {
			return err
		}

		if err := c.runner.Run(ctx, cmd); err != nil {
			var abortErr *berrors.AbortedError
			if errors.As(err, &abortErr) {
				continue
			}

			var toolErr *berrors.ToolExitError
			if !errors.As(err, &toolErr) {
				return err
			}
			if toolErr.ExitCode > highest {
				highest = toolErr.ExitCode
			}
		}
	}

	if highest > 0 {
		return berrors.NewToolExitError("list-archives", highest)
	}
	return nil
}

// archiveListing is the part of "borg list --json" output this tool reads.
type archiveListing struct {
	Archives []struct {
		Archive string `json:"archive"`
	} `json:"archives"`
}

// diffLine is one line of "borg diff --json-lines" output.
type diffLine struct {
	Path    string `json:"path"`
	Changes []struct {
		Type string `json:"type"`
	} `json:"changes"`
}

// listRemovedItems diffs the two most recent archives and prints every
// removed file or directory. --fail turns findings into exit code 1,
// --color highlights them, an optional path narrows the diff.
func listRemovedItems(ctx context.Context, c *components, repo config.Repository, extraArgs []string) error {
	var fail, color bool
	var path string

	for _, arg := range extraArgs {
		switch {
		case arg == "--fail":
			fail = true
		case arg == "--color":
			color = true
		case strings.HasPrefix(arg, "-"):
			return berrors.NewUsageError("list-removed-items: unknown option " + arg)
		case path != "":
			return berrors.NewUsageError("list-removed-items: at most one path argument is allowed")
		default:
			path = arg
		}
	}

	recentCmd, err := c.runner.Build(c.cfg, repo, []string{"list", "--last", "2", "--json"})
	if err != nil {
		return err
	}

	out, err := c.runner.Output(ctx, recentCmd)
	if err != nil {
		return err
	}

	var listing archiveListing
	if err := json.Unmarshal(out, &listing); err != nil {
		return berrors.NewExecutionError(recentCmd.Line, "failed to parse archive listing", err)
	}

	// Nothing to compare against yet.
	if len(listing.Archives) < 2 {
		return nil
	}

	previous := listing.Archives[0].Archive
	current := listing.Archives[1].Archive

	diffArgs := []string{"diff", "--json-lines", "::" + previous, current}
	if path != "" {
		diffArgs = append(diffArgs, path)
	}

	diffCmd, err := c.runner.Build(c.cfg, repo, diffArgs)
	if err != nil {
		return err
	}

	out, err = c.runner.Output(ctx, diffCmd)
	if err != nil {
		return err
	}

	printLine := func(s string) {
		if color {
			s = removedStyle.Render(s)
		}
		fmt.Fprintln(c.runner.Stdout, s)
	}

	found := false
	for _, raw := range strings.Split(string(out), "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		var line diffLine
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			return berrors.NewExecutionError(diffCmd.Line, "failed to parse diff output", err)
		}

		for _, change := range line.Changes {
			switch change.Type {
			case "removed":
				printLine("Removed file: " + line.Path)
				found = true
			case "removed directory":
				printLine("Removed directory: " + line.Path)
				found = true
			}
		}
	}

	if found && fail {
		return berrors.NewToolExitError("list-removed-items", 1)
	}
	return nil
}
