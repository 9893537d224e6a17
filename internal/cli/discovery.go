package cli

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/protomux/claude-codes-go/internal/errors"
)

// findCLI locates the agent CLI binary. An explicit path is used as-is;
// otherwise PATH is searched first, then a few well-known install locations.
func findCLI(log *slog.Logger, explicit string) (string, error) {
	if explicit != "" {
		log.Debug("Using explicit CLI path", "cli_path", explicit)

		if _, err := os.Stat(explicit); err == nil {
			return explicit, nil
		}

		return "", &errors.CLINotFoundError{SearchedPaths: []string{explicit}}
	}

	searchedPaths := make([]string, 0, 4)

	log.Debug("Searching for 'claude' in PATH")

	if path, err := exec.LookPath("claude"); err == nil {
		log.Debug("Found 'claude' in PATH", "path", path)

		return path, nil
	}

	searchedPaths = append(searchedPaths, "$PATH")

	commonPaths := []string{
		"/usr/local/bin/claude",
		"/usr/bin/claude",
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		commonPaths = append(commonPaths, filepath.Join(homeDir, ".local/bin/claude"))
	}

	for _, path := range commonPaths {
		searchedPaths = append(searchedPaths, path)

		if _, err := os.Stat(path); err == nil {
			log.Debug("Found CLI at common path", "path", path)

			return path, nil
		}
	}

	log.Warn("Agent CLI not found in any searched path", "searched_paths", searchedPaths)

	return "", &errors.CLINotFoundError{SearchedPaths: searchedPaths}
}
