// Package runner builds and executes the final borg command line.
package runner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/borg-helper/borg-helper/internal/alias"
	"github.com/borg-helper/borg-helper/internal/berrors"
	"github.com/borg-helper/borg-helper/internal/config"
	"github.com/borg-helper/borg-helper/internal/logger"
	"github.com/charmbracelet/lipgloss"
)

var commandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

// Command is a fully resolved invocation of the backup tool. It is built
// once per dispatch and never mutated afterward.
type Command struct {
	Binary string
	Args   []string
	// Line is the shell command line actually executed: binary and args
	// joined, after template rendering.
	Line string
	// Env holds extra KEY=VALUE pairs for the child process only.
	Env []string
}

// Runner executes resolved commands through a shell so that shell syntax
// inside aliases keeps working.
type Runner struct {
	log *logger.Logger

	// Interactive requires confirmation before every spawn.
	Interactive bool

	// Shell is the interpreter used for execution. Defaults to sh.
	Shell string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New creates a runner with inherited standard streams.
func New(log *logger.Logger) *Runner {
	return &Runner{
		log:    log,
		Shell:  "sh",
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Build resolves aliases and constructs the final command for the given
// repository. The repository location and credentials travel in the child
// environment (BORG_REPO, BORG_PASSPHRASE, BORG_RSH), which is what borg's
// "::archive" shorthand expects.
func (r *Runner) Build(cfg *config.Config, repo config.Repository, rawArgs []string) (*Command, error) {
	args := alias.Resolve(rawArgs, repo.Aliases, cfg.Aliases)

	binary := cfg.Binary(repo)
	line, err := renderLine(strings.Join(append([]string{binary}, args...), " "))
	if err != nil {
		return nil, berrors.NewConfigurationError("", "failed to render command template", err)
	}

	var env []string
	if repo.Repository != "" {
		env = append(env, "BORG_REPO="+repo.Repository)
	}
	if repo.Passphrase != "" {
		env = append(env, "BORG_PASSPHRASE="+repo.Passphrase)
	}
	if repo.SSHKey != "" {
		env = append(env, fmt.Sprintf("BORG_RSH=ssh -i '%s'", config.ExpandUser(repo.SSHKey)))
	}

	r.log.Debug().
		Str("binary", binary).
		Strs("args", args).
		Msg("Resolved command")

	return &Command{
		Binary: binary,
		Args:   args,
		Line:   line,
		Env:    env,
	}, nil
}

// Run executes the command with inherited standard streams and blocks until
// it exits. A non-zero exit of the tool is returned as a ToolExitError so
// the caller can forward the code verbatim.
func (r *Runner) Run(ctx context.Context, cmd *Command) error {
	_, err := r.start(ctx, cmd, false)
	return err
}

// Output executes the command capturing its stdout, for composite commands
// that post-process borg's output. Stderr stays inherited so progress and
// prompts from borg remain visible.
func (r *Runner) Output(ctx context.Context, cmd *Command) ([]byte, error) {
	return r.start(ctx, cmd, true)
}

func (r *Runner) start(ctx context.Context, cmd *Command, captureStdout bool) ([]byte, error) {
	fmt.Fprintf(r.Stderr, "> %s\n", commandStyle.Render(cmd.Line))

	if r.Interactive && !r.confirm() {
		return nil, berrors.NewAbortedError()
	}

	execCmd := exec.CommandContext(ctx, r.Shell, "-c", cmd.Line)
	execCmd.Env = append(os.Environ(), cmd.Env...)
	execCmd.Stdin = r.Stdin
	execCmd.Stderr = r.Stderr

	var captured bytes.Buffer
	if captureStdout {
		execCmd.Stdout = &captured
	} else {
		execCmd.Stdout = r.Stdout
	}

	if err := execCmd.Start(); err != nil {
		return nil, berrors.NewExecutionError(cmd.Line, "failed to start command", err)
	}

	// Relay interrupts to the child and let its own handling decide; no
	// timeout is imposed on long-running backup operations.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigCh:
				_ = execCmd.Process.Signal(sig)
			case <-done:
				return
			}
		}
	}()

	err := execCmd.Wait()
	close(done)
	signal.Stop(sigCh)

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return captured.Bytes(), berrors.NewToolExitError(cmd.Line, exitErr.ExitCode())
		}
		return nil, berrors.NewExecutionError(cmd.Line, "failed to run command", err)
	}

	return captured.Bytes(), nil
}

// confirm prompts on stderr and reads one line from stdin. Anything not
// starting with "n" counts as a yes, including an empty answer. EOF or a
// read failure declines: without an answer the command must not run.
func (r *Runner) confirm() bool {
	fmt.Fprint(r.Stderr, "Are you sure to execute the command above? [Y/n] ")

	scanner := bufio.NewScanner(r.Stdin)
	if !scanner.Scan() {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return !strings.HasPrefix(answer, "n")
}

// renderLine runs the command line through text/template with the sprig
// function set, so aliases can carry dynamic archive names such as
// "create ::{{ now | date \"2006-01-02\" }}". Lines without template
// actions pass through untouched, and shell syntax like $(...) is never
// interpreted here.
func renderLine(line string) (string, error) {
	if !strings.Contains(line, "{{") {
		return line, nil
	}

	tmpl, err := template.New("command").Funcs(sprig.TxtFuncMap()).Parse(line)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, nil); err != nil {
		return "", err
	}

	return buf.String(), nil
}
