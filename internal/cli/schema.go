package cli

import (
	"fmt"
	"os"

	"github.com/borg-helper/borg-helper/internal/config"
)

// Schema prints the configuration JSON Schema, or writes it to outputPath
// when given.
func Schema(outputPath string) error {
	schemaJSON := config.GetSchemaJSON()

	if outputPath == "" {
		fmt.Print(schemaJSON)
		return nil
	}

	if err := os.WriteFile(outputPath, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}

	fmt.Printf("Schema written to %s\n", outputPath)
	return nil
}
