package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrInvalidJobs indicates a negative job count.
	ErrInvalidJobs = errors.New("job count out of range")

	// ErrInvalidLogLevel indicates an unknown log level name.
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrInvalidFormat indicates an unknown report format.
	ErrInvalidFormat = errors.New("invalid report format")

	// ErrInvalidEncoderVersion indicates a minimum encoder version that is
	// not a dotted release number.
	ErrInvalidEncoderVersion = errors.New("invalid minimum encoder version")

	// ErrInvalidTruePeak indicates a true-peak ceiling above full scale.
	ErrInvalidTruePeak = errors.New("true peak ceiling out of range")
)
