package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckConfigCompatibility checks if a config file written for configVersion
// can be used by a tool at toolVersion.
// Returns nil if compatible, error with details if not.
//
// Compatibility Rules:
//   - If either version is "main" (development build), compatibility check is skipped
//   - Major versions must match exactly
//   - The config minor version must not be newer than the tool minor version
//   - Patch versions can differ
//
// Examples:
//   - Tool 1.2.0, Config 1.2.0 -> OK (exact match)
//   - Tool 1.3.0, Config 1.2.0 -> OK (older config)
//   - Tool 1.2.0, Config 1.3.0 -> ERROR (config needs a newer tool)
//   - Tool 2.0.0, Config 1.2.0 -> ERROR (major differs)
//   - Tool main, Config 1.2.0 -> OK (dev build, skip check)
func CheckConfigCompatibility(toolVersion, configVersion string) error {
	// Strip 'v' prefix if present for consistency
	toolVersion = strings.TrimPrefix(toolVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	// Skip version check for "main" (development builds)
	if toolVersion == "main" || configVersion == "main" {
		return nil
	}

	toolSemver, err := semver.NewVersion(toolVersion)
	if err != nil {
		return fmt.Errorf("invalid tool version '%s': %w", toolVersion, err)
	}

	configSemver, err := semver.NewVersion(configVersion)
	if err != nil {
		return fmt.Errorf("invalid config version '%s': %w", configVersion, err)
	}

	if toolSemver.Major() != configSemver.Major() {
		return fmt.Errorf("major version mismatch: tool is %d.x.x but config requires %d.x.x",
			toolSemver.Major(), configSemver.Major())
	}

	if configSemver.Minor() > toolSemver.Minor() {
		return fmt.Errorf("config requires a newer tool: tool is %d.%d.x but config requires %d.%d.x",
			toolSemver.Major(), toolSemver.Minor(),
			configSemver.Major(), configSemver.Minor())
	}

	return nil
}
