package logger

import (
	"os"
	"strings"
)

// isInCIEnvironment reports whether the process runs under a CI system.
func isInCIEnvironment() bool {
	return strings.EqualFold(os.Getenv("CI"), "true") || os.Getenv("GITHUB_ACTIONS") != ""
}

// getCIMetadata collects the CI variables worth attaching to every record.
func getCIMetadata() map[string]string {
	metadata := make(map[string]string)
	for key, env := range map[string]string{
		"ci_provider":   "CI_PROVIDER",
		"ci_commit":     "GITHUB_SHA",
		"ci_ref":        "GITHUB_REF",
		"ci_run_id":     "GITHUB_RUN_ID",
		"ci_workflow":   "GITHUB_WORKFLOW",
		"ci_repository": "GITHUB_REPOSITORY",
	} {
		if value := os.Getenv(env); value != "" {
			metadata[key] = value
		}
	}
	if os.Getenv("GITHUB_ACTIONS") != "" {
		metadata["ci_provider"] = "github_actions"
	}
	return metadata
}
