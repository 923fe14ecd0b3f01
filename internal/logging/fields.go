package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType classifies a log line for filtering (e.g. catalogue_refreshed).
	FieldEventType = "event_type"
	// FieldErrorHint carries the operator's next step when something went wrong.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldRunID identifies a single fetch invocation.
	FieldRunID = "run_id"
	// FieldSubstanceID is the service identifier of the substance being fetched.
	FieldSubstanceID = "substance_id"
	// FieldVariant is the calculation variant tag (isobar, isotherm, ...).
	FieldVariant = "variant"
)
