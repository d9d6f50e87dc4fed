package service

import "errors"

// ErrNotStarted is returned by queries issued before Start.
var ErrNotStarted = errors.New("service not started")
