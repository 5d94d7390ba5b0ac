package api

import (
	"github.com/JaimeStill/verdict/internal/analyses"
	"github.com/JaimeStill/verdict/internal/analyst"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Analyses analyses.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	analyzer := analyst.New(runtime.Analyst, nil, runtime.Logger)

	analysesSystem := analyses.New(
		runtime.Database.Connection(),
		runtime.Storage,
		analyzer,
		runtime.Logger,
		runtime.Pagination,
		runtime.HistoryLimit,
	)

	return &Domain{
		Analyses: analysesSystem,
	}
}
