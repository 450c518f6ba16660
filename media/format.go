package media

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vplay-cli/vplay/constant"
)

// FormatClock renders seconds as zero-padded HH:MM:SS. Fractional seconds are truncated.
func FormatClock(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}

	sec := int64(seconds)
	hours := sec / 3600
	minutes := (sec - hours*3600) / 60
	rest := sec - hours*3600 - minutes*60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, rest)
}

// FormatRate renders the playback rate notification.
func FormatRate(rate float64) string {
	return fmt.Sprintf(constant.NoticeSpeedFormat, rate)
}

// FormatVolume renders the volume notification as an integer percentage.
func FormatVolume(volume float64) string {
	return fmt.Sprintf(constant.NoticeVolFormat, int(math.Round(volume*100)))
}

// FormatSeek renders the relative seek notification.
func FormatSeek(delta int) string {
	direction := "Forward"
	if delta < 0 {
		direction = "Backward"
		delta = -delta
	}
	return fmt.Sprintf(constant.NoticeSeekFormat, direction, delta)
}

// ParseClock reads a position given as seconds ("65", "65.5") or as a clock ("1:05", "00:01:05").
func ParseClock(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty position")
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid position %q", s)
	}

	var seconds float64
	for i, part := range parts {
		n, err := strconv.ParseFloat(part, 64)
		if err != nil || n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("invalid position %q", s)
		}
		// minutes and seconds fields of a clock stay below 60
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("invalid position %q", s)
		}
		seconds = seconds*60 + n
	}

	return seconds, nil
}
