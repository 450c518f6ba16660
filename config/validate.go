package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/vplay-cli/vplay/key"
)

// ErrInvalidValue is returned by Validate for values the player cannot use.
var ErrInvalidValue = errors.New("invalid value")

var validators = map[string]func(value any) error{
	key.PlayerPollInterval:   positiveDuration,
	key.NotifyDuration:       positiveDuration,
	key.PlayerSeekStep:       positiveInt,
	key.HistoryEntries:       positiveInt,
	key.ServerMaxConnections: positiveInt,
	key.ServerUploadLimitMB:  positiveInt,
	key.ServerAddress:        hostPort,
}

// Validate checks value against the constraints of the named key.
// Keys without constraints accept anything of the right type.
func Validate(name string, value any) error {
	validate, ok := validators[name]
	if !ok {
		return nil
	}

	if err := validate(value); err != nil {
		return fmt.Errorf("%w for %s: %s", ErrInvalidValue, name, err)
	}
	return nil
}

func positiveDuration(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected a duration, got %T", value)
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	if d <= 0 {
		return errors.New("duration must be positive")
	}
	return nil
}

func positiveInt(value any) error {
	n, ok := value.(int)
	if !ok {
		return fmt.Errorf("expected an integer, got %T", value)
	}
	if n <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
}

func hostPort(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected an address, got %T", value)
	}

	_, _, err := net.SplitHostPort(s)
	return err
}
