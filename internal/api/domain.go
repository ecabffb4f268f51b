package api

import (
	"github.com/casetrail/casetrail/internal/cases"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Cases cases.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	casesSystem := cases.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Workflow,
		runtime.Logger,
	)

	return &Domain{
		Cases: casesSystem,
	}
}
