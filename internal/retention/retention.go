// Package retention decides how long uploaded files are kept.
//
// Small files are kept for the longest period and large files for the
// shortest, following a cubic ease-out curve between the two bounds.
package retention

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Rejected is returned by Days for sizes that must not be stored.
const Rejected = -1

// Day is the length of one retention day.
const Day = 24 * time.Hour

// Policy holds the retention bounds configured by the instance owner.
type Policy struct {
	// MinAge is the number of days the largest accepted file is kept.
	MinAge int `yaml:"min_age"`
	// MaxAge is the number of days an empty file is kept.
	MaxAge int `yaml:"max_age"`
	// MaxSize is the largest accepted file size in megabytes.
	MaxSize float64 `yaml:"max_size"`
}

// Validate checks the invariants the curve relies on.
func (p Policy) Validate() error {
	var errs []error

	if p.MinAge < 0 {
		errs = append(errs, fmt.Errorf("min age must not be negative, got %d", p.MinAge))
	}
	if p.MinAge > p.MaxAge {
		errs = append(errs, fmt.Errorf("min age %d is greater than max age %d", p.MinAge, p.MaxAge))
	}
	if p.MaxSize <= 0 {
		errs = append(errs, fmt.Errorf("max size must be positive, got %v", p.MaxSize))
	}

	return errors.Join(errs...)
}

// Days returns the number of days a file of sizeMB megabytes is kept, or
// Rejected when the size is negative or above MaxSize.
func (p Policy) Days(sizeMB float64) int {
	if sizeMB > p.MaxSize || sizeMB < 0 || math.IsNaN(sizeMB) {
		return Rejected
	}

	minAge := float64(p.MinAge)
	maxAge := float64(p.MaxAge)

	result := minAge + (minAge-maxAge)*math.Pow(sizeMB/p.MaxSize-1, 3)

	return int(math.Floor(result))
}

// Expiry returns the moment a file kept for days expires.
func (p Policy) Expiry(now time.Time, days int) time.Time {
	return now.Add(time.Duration(days) * Day)
}

// MegaBytes converts a byte count into the decimal megabytes Days expects.
func MegaBytes(size int64) float64 {
	return float64(size) / 1e6
}
