package cli

import (
	"fmt"
	"io"
	"os"
)

// List prints all configured repositories sorted by name.
func List(logLevel string, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	c, err := initializeComponents(logLevel, false, nil)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Available repositories:")
	for _, entry := range c.registry.List() {
		fmt.Fprintf(w, "  %s (%s)\n", entry.Name, entry.Location)
	}

	return nil
}
