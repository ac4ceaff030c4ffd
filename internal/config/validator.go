package config

import (
	"fmt"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"

	mgreperrors "github.com/standardbeagle/mgrep/internal/errors"
	"github.com/standardbeagle/mgrep/internal/types"
)

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults
// Returns an error if validation fails
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateSearchConfig(&cfg.Search); err != nil {
		return err
	}

	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return mgreperrors.NewConfigError("exclude", pattern, doublestar.ErrBadPattern)
		}
	}

	v.setSmartDefaults(cfg)
	return nil
}

// validateSearchConfig validates search configuration
func (v *Validator) validateSearchConfig(search *Search) error {
	if search.MaxTasks < 0 {
		return mgreperrors.NewConfigError("search.max_tasks", strconv.Itoa(search.MaxTasks),
			fmt.Errorf("cannot be negative"))
	}

	if search.BufferSize < 0 {
		return mgreperrors.NewConfigError("search.buffer_size", strconv.Itoa(search.BufferSize),
			fmt.Errorf("cannot be negative"))
	}

	return nil
}

// setSmartDefaults fills in unset values
func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Search.BufferSize == 0 {
		cfg.Search.BufferSize = types.DefaultReadBufferSize
	}

	// A buffer must hold a whole capped line
	if cfg.Search.BufferSize < types.MinReadBufferSize {
		cfg.Search.BufferSize = types.MinReadBufferSize
	}

	cfg.Exclude = DeduplicatePatterns(cfg.Exclude)
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	validator := NewValidator()
	return validator.ValidateAndSetDefaults(cfg)
}

// ValidatePattern rejects search patterns that could never match a capped line
func ValidatePattern(pattern string) error {
	if len(pattern) > types.MaxLineLength {
		return mgreperrors.NewPatternTooLongError(types.MaxLineLength)
	}
	return nil
}
