package errors

var (
	ErrSeriesTooShort = New(
		"SERIES_TOO_SHORT",
		"Series too short for train/test split",
	)

	ErrInvalidForecastOptions = New(
		"INVALID_FORECAST_OPTIONS",
		"Invalid forecast options",
	)

	ErrModelFit = New(
		"MODEL_FIT_FAILED",
		"Time series model fit failed",
	)

	ErrMissingHeader = New(
		"MISSING_HEADER",
		"CSV file has no header row",
	)

	ErrInvalidConfig = New(
		"INVALID_CONFIG",
		"Invalid configuration",
	)

	ErrBoundaryFile = New(
		"BOUNDARY_FILE_ERROR",
		"Failed to load precinct boundaries",
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
	)

	ErrRenderFailed = New(
		"RENDER_FAILED",
		"Failed to render output",
	)
)
