// Package logfinder locates the Quake III Arena games.log.
package logfinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// EnvLogFile is the environment variable name for specifying the log file.
const EnvLogFile = "FRAGLOG_LOG"

// DefaultLogName is the file name the server writes its log to.
const DefaultLogName = "games.log"

// ErrLogNotFound is returned when no games.log can be found.
var ErrLogNotFound = errors.New("games.log not found")

// DefaultLogFiles returns candidate games.log locations in priority order:
// the working directory first, then the per-user game directories of
// baseq3 and the Team Arena mod.
func DefaultLogFiles() []string {
	candidates := []string{DefaultLogName}

	home, err := homedir.Dir()
	if err != nil || home == "" {
		return candidates
	}

	return append(candidates,
		filepath.Join(home, ".q3a", "baseq3", DefaultLogName),
		filepath.Join(home, ".q3a", "missionpack", DefaultLogName),
	)
}

// FindLogFile returns the games.log to read.
//
// Priority:
//  1. explicit (if non-empty, "~" is expanded)
//  2. FRAGLOG_LOG environment variable
//  3. The first existing file of DefaultLogFiles()
//
// Returns ErrLogNotFound if no valid file is found.
// The returned path has symlinks resolved for consistency.
func FindLogFile(explicit string) (string, error) {
	// 1. Check explicit
	if explicit != "" {
		if resolved := resolveAndValidateLogFile(explicit); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %s is not a readable file", ErrLogNotFound, explicit)
	}

	// 2. Check environment variable
	if envFile := os.Getenv(EnvLogFile); envFile != "" {
		if resolved := resolveAndValidateLogFile(envFile); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %s environment variable points to invalid file", ErrLogNotFound, EnvLogFile)
	}

	// 3. Auto-detect
	for _, path := range DefaultLogFiles() {
		if resolved := resolveAndValidateLogFile(path); resolved != "" {
			return resolved, nil
		}
	}

	return "", ErrLogNotFound
}

// resolveAndValidateLogFile expands "~", resolves symlinks and checks that
// the result is a regular file.
// Returns the resolved path if valid, empty string otherwise.
func resolveAndValidateLogFile(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return ""
	}

	info, err := os.Stat(expanded)
	if err != nil || !info.Mode().IsRegular() {
		return ""
	}

	resolved, err := filepath.EvalSymlinks(expanded)
	if err != nil {
		// Fallback to original path if symlink resolution fails
		// (e.g., permission issues)
		resolved = expanded
	}

	return resolved
}
