package middlewares

const (
	CtxRequestID = "request_id"

	ctxUserIDKey   = "session.userID"
	ctxRoleKey     = "session.role"
	ctxIdentityKey = "session.identity"
)
