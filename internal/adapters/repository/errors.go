package repository

import (
	"fmt"

	"github.com/okian/rosterlens/internal/domain/model"
)

// Sentinel kinds for load errors.
var (
	ErrNoSources = fmt.Errorf("%w: no tabular sources discovered", model.ErrSourceNotFound)
)
