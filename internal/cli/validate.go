package cli

import (
	"fmt"
	"os"

	"github.com/borg-helper/borg-helper/internal/berrors"
	"github.com/borg-helper/borg-helper/internal/config"
)

// Validate validates a borg-helper configuration file against the schema.
// With no path it validates the first discovered candidate file.
func Validate(configPath string) error {
	if configPath == "" {
		configPath = firstExistingCandidate()
		if configPath == "" {
			return berrors.NewUsageError("no config file found in any candidate location")
		}
	}

	fmt.Printf("Validating: %s\n\n", configPath)

	content, err := os.ReadFile(configPath)
	if err != nil {
		return berrors.NewConfigurationError(configPath, "failed to read config file", err)
	}

	result, err := config.ValidateWithSchema(configPath, content)
	if err != nil {
		return err
	}

	if result.Valid {
		fmt.Println("✅ Configuration is valid!")
		return nil
	}

	fmt.Println("❌ Configuration has errors:")
	for i, validationErr := range result.Errors {
		fmt.Printf("%d. [%s] %s\n", i+1, validationErr.Field, validationErr.Message)
	}

	fmt.Printf("\nFound %d error(s)\n", len(result.Errors))

	return berrors.NewConfigurationError(configPath, "validation failed", nil)
}
