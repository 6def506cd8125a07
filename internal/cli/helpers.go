package cli

import (
	"io"
	"os"

	"github.com/borg-helper/borg-helper/internal/berrors"
	"github.com/borg-helper/borg-helper/internal/config"
	"github.com/borg-helper/borg-helper/internal/logger"
	"github.com/borg-helper/borg-helper/internal/registry"
	"github.com/borg-helper/borg-helper/internal/runner"
)

// components holds the initialized pieces every command works with
type components struct {
	log      *logger.Logger
	cfg      *config.Config
	registry *registry.Registry
	runner   *runner.Runner
}

// initializeComponents loads and merges all config sources and wires up the
// registry and runner. A setup without any repository is unusable, so it is
// rejected here for every command.
func initializeComponents(logLevel string, interactive bool, logOutput io.Writer) (*components, error) {
	if logOutput == nil {
		logOutput = os.Stderr
	}
	log := logger.New(logLevel, logOutput)

	loader := config.New(log)
	cfg, err := loader.LoadAll(config.CandidatePaths())
	if err != nil {
		return nil, err
	}

	reg := registry.New(cfg)
	if reg.Len() == 0 {
		return nil, berrors.NewConfigurationError("", "no repositories configured", nil)
	}

	run := runner.New(log)
	run.Interactive = interactive

	return &components{
		log:      log,
		cfg:      cfg,
		registry: reg,
		runner:   run,
	}, nil
}

// firstExistingCandidate returns the first config candidate path that exists
func firstExistingCandidate() string {
	for _, path := range config.CandidatePaths() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
