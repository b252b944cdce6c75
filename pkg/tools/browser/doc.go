// Package browser exposes the browser automation engine as agent tools.
// Each tool decodes its JSON arguments at the boundary, drives a session
// through the registry, and reports expected failures (unknown session,
// missing element, capacity pressure) as diagnostic results the model can
// recover from. Infrastructure faults propagate as errors and abort the run.
package browser
