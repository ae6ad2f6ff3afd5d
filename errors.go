package instrumentation

import "errors"

var (
	ErrUnsortedBuckets  = errors.New("instrumentation: histogram thresholds are not increasing")
	ErrDuplicateBuckets = errors.New("instrumentation: duplicate histogram threshold")
	ErrNegativeBucket   = errors.New("instrumentation: histogram threshold must be positive")
)
