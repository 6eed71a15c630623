package composables

type contextKey string

const (
	txKey        contextKey = "tx"
	poolKey      contextKey = "pool"
	requestIDKey contextKey = "request_id"
	loggerKey    contextKey = "logger"
)
