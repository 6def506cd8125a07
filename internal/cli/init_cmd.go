package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/borg-helper/borg-helper/internal/berrors"
	"github.com/borg-helper/borg-helper/internal/config"
)

// Init writes a sample configuration file to the current directory, or to
// the user config dir with global set. Existing files are never overwritten.
func Init(global bool) error {
	path := config.ConfigFileName
	if global {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, ".config", config.ConfigFileName)
	}

	if _, err := os.Stat(path); err == nil {
		return berrors.NewUsageError(fmt.Sprintf("config file already exists: %s", path))
	}

	if global {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	// The sample contains a passphrase placeholder, keep it private.
	if err := os.WriteFile(path, []byte(config.SampleConfig()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created %s\n", path)
	fmt.Println("Edit the repository location and passphrase, then run 'borg-helper list' to check it.")

	return nil
}
