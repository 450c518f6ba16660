package version

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"time"
)

// MinimumPlayer is the oldest mpv release whose IPC protocol supports request ids.
const MinimumPlayer = "0.33.0"

var ErrVersionUnknown = errors.New("could not determine player version")

var playerVersionPattern = regexp.MustCompile(`mpv v?(\d+\.\d+\.\d+)`)

// ParsePlayer extracts the release from "mpv --version" output.
func ParsePlayer(output string) (string, error) {
	match := playerVersionPattern.FindStringSubmatch(output)
	if match == nil {
		return "", ErrVersionUnknown
	}
	return match[1], nil
}

// Player runs binary --version and returns its release.
func Player(ctx context.Context, binary string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, binary, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("%s --version: %w", binary, err)
	}

	return ParsePlayer(string(out))
}

// Supported reports whether release is at least MinimumPlayer.
func Supported(release string) (bool, error) {
	cmp, err := Compare(release, MinimumPlayer)
	if err != nil {
		return false, err
	}
	return cmp >= 0, nil
}
