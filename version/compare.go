// Package version compares semantic versions and discovers the installed playback backend version.
package version

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Compare performs a semantic comparison between two version strings.
// Returns 1 if a > b, -1 if a < b, and 0 if equal.
func Compare(a, b string) (int, error) {
	av, err := parse(a)
	if err != nil {
		return 0, err
	}

	bv, err := parse(b)
	if err != nil {
		return 0, err
	}

	for _, pair := range lo.Zip2(av, bv) {
		if pair.A > pair.B {
			return 1, nil
		}

		if pair.A < pair.B {
			return -1, nil
		}
	}

	return 0, nil
}

// parse accepts "1.2.3", "v1.2.3" and "1.2.3-suffix".
func parse(s string) ([]int, error) {
	parts := make([]int, 3)
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if _, err := fmt.Sscanf(s, "%d.%d.%d", &parts[0], &parts[1], &parts[2]); err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return parts, nil
}
