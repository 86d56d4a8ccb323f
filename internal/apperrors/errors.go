package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrNoRateFound indicates the backward date walk exhausted the known
// history without finding a rate. It is an expected, data-dependent outcome
// and is what triggers the single ingest-and-retry pass.
var ErrNoRateFound = errors.New("no fx rate found")

// ErrUnsupportedCurrency indicates the lookup currency has no rates under
// the requested source/frequency and no pegged-currency definition either.
var ErrUnsupportedCurrency = errors.New("currency not supported")

// ErrRateConflict indicates an ingested rate disagrees, beyond the rounding
// tolerance, with the value already stored for the same tuple. The explicit
// correction operation is the only path allowed to overwrite.
var ErrRateConflict = errors.New("conflicting rate for existing tuple")

// ErrUnsupportedFrequency indicates a frequency was requested from a
// provider whose descriptor does not declare it.
var ErrUnsupportedFrequency = errors.New("frequency not supported by provider")

// ErrMinDateMissing indicates min-date bookkeeping was consulted for a
// (source, frequency) pair that was never initialised. Configuration fault.
var ErrMinDateMissing = errors.New("no minimum date tracked for source/frequency")

// ErrEmptyProviderBatch indicates a provider returned zero records for a
// historical range it was expected to cover.
var ErrEmptyProviderBatch = errors.New("provider returned empty batch")
