package analysis

import "errors"

// ErrNoInputTables indicates the input directory held zero parseable tabular
// files. Configuration error: fatal, no partial run.
var ErrNoInputTables = errors.New("no input tables found")

// ErrMissingBrief indicates the business brief file is absent or empty.
var ErrMissingBrief = errors.New("business brief is missing")

// ErrInvalidPlan indicates the model's plan response failed JSON parsing or
// schema validation. Fatal unless offline fallback is explicitly enabled.
var ErrInvalidPlan = errors.New("invalid analysis plan")
