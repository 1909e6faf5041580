package tiremodel

import (
	"fmt"

	"github.com/TireMDO-25-26/sizing-core/pkg/models"
)

// InvalidDesignError reports a design vector whose parameters are outside
// the model's physical validity envelope. The candidate is infeasible by
// construction and never enters the coupling loop.
type InvalidDesignError struct {
	Design models.DesignVector
	Field  string
	Reason string
}

func (e *InvalidDesignError) Error() string {
	return fmt.Sprintf("invalid design %s: %s: %s", e.Design.Designation(), e.Field, e.Reason)
}
