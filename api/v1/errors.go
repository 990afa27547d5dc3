package v1

var (
	// common errors
	ErrSuccess             = newError(0, "ok")
	ErrBadRequest          = newError(400, "bad request")
	ErrUnauthorized        = newError(401, "unauthorized")
	ErrNotFound            = newError(404, "not found")
	ErrInternalServerError = newError(500, "internal server error")

	// sync errors
	ErrTaskNotFound       = newError(3001, "sync task not found")
	ErrSourceNotFound     = newError(3002, "source system not found")
	ErrSourceUnavailable  = newError(3003, "source system unavailable")
	ErrHistoryUnavailable = newError(3004, "run history store unavailable")
)
