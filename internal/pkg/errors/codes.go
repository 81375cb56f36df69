package errors

var (
	ErrLocationPermissionDenied = New(
		"LOCATION_PERMISSION_DENIED",
		"Location access is turned off. Enable it in Settings to find your zone.",
		ActionOpenSettings,
	)

	ErrLocationUnavailable = New(
		"LOCATION_UNAVAILABLE",
		"Your location could not be determined",
		ActionRetry,
	)

	ErrUnknownArea = New(
		"UNKNOWN_AREA",
		"No parking zone found at this location",
		ActionRetry,
	)

	ErrOutsideCoverage = New(
		"OUTSIDE_COVERAGE",
		"This location is outside San Francisco",
		ActionNone,
	)

	ErrDataLoadFailed = New(
		"DATA_LOAD_FAILED",
		"Parking zone data could not be loaded",
		ActionRetry,
	)

	ErrUnknown = New(
		"UNKNOWN",
		"Something went wrong",
		ActionRetry,
	)
)

var (
	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		ActionNone,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		ActionNone,
	)

	ErrSessionNotFound = New(
		"SESSION_NOT_FOUND",
		"Parking session not found",
		ActionNone,
	)

	ErrFetchFailed = New(
		"FETCH_FAILED",
		"Fetching source data failed",
		ActionRetry,
	)

	ErrValidationFailed = New(
		"VALIDATION_FAILED",
		"Dataset failed validation",
		ActionNone,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		ActionRetry,
	)
)
