//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"
	"os"
	"os/user"
	"strings"
)

// DetectActor returns "username@hostname" for the current process.
// The server logs it next to every alarm the client submits.
func DetectActor() (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("hostname: %w", err)
	}

	username := os.Getenv("USER")

	if currentUser, err := user.Current(); err == nil {
		username = currentUser.Username
	} else if username == "" {
		return "", fmt.Errorf("current user: %w", err)
	}

	return formatActor(username, hostname), nil
}

// formatActor drops a Windows domain prefix ("CORP\jdoe") and the DNS
// suffix of the hostname so actors read the same on every platform.
func formatActor(username, hostname string) string {
	if i := strings.LastIndexByte(username, '\\'); i >= 0 {
		username = username[i+1:]
	}

	if host, _, found := strings.Cut(hostname, "."); found && host != "" {
		hostname = host
	}

	return strings.ToLower(username) + "@" + strings.ToLower(hostname)
}
