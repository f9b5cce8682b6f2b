package port

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/nobletooth/strand/pkg/list"
)

var (
	seedValues = flag.String("seed_values", "", "Comma-separated payloads to preload into the list, in order.")
	seedFile   = flag.String("seed_file", "",
		"Path to a file with one payload per line to preload. Takes precedence over --seed_values.")
)

// BuildList constructs the list to serve from the seeding flags. With neither
// flag set the list starts empty.
func BuildList() (*list.List, error) {
	values, err := seedPayloads()
	if err != nil {
		return nil, err
	}
	l, err := list.New(values...)
	if err != nil {
		return nil, fmt.Errorf("failed to build the seeded list: %w", err)
	}
	return l, nil
}

// seedPayloads reads the initial payloads from --seed_file when set and
// --seed_values otherwise. Blank lines in a seed file are skipped, since an
// empty payload is not a valid node.
func seedPayloads() ([]string, error) {
	if *seedFile != "" {
		content, err := os.ReadFile(*seedFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read --seed_file: %w", err)
		}
		var values []string
		for _, line := range strings.Split(string(content), "\n") {
			if line = strings.TrimRight(line, "\r"); line != "" {
				values = append(values, line)
			}
		}
		return values, nil
	}
	if *seedValues == "" {
		return nil, nil
	}
	return strings.Split(*seedValues, ","), nil
}
