// Package common holds domain errors shared across operation families.
package common

import "errors"

// ErrAmountMustBePositive is returned when a monetary amount or share count
// is zero or negative.
var ErrAmountMustBePositive = errors.New("amount must be positive")
