// Package learning adjusts scoring weights from accumulated feedback signals.
package learning

import "errors"

// ErrInsufficientSignals indicates a retrain was requested before enough
// labeled feedback accumulated. No new weight version is produced; the prior
// version stays active.
var ErrInsufficientSignals = errors.New("not enough labeled feedback signals to retrain")
