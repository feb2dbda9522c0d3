package handler

const (
	// RootPath is the root path of the route group.
	RootPath = "/"

	// XMLNamespace is the protocol namespace carried by every response body.
	XMLNamespace = "https://route53.amazonaws.com/doc/2010-10-01/"

	// ErrNilACSFatalLogMsg is used if app or cfg or service var pointer is nil.
	ErrNilACSFatalLogMsg = "app, cfg or service is nil"

	// LocalsOwner is the fiber locals key holding the authenticated owner id.
	LocalsOwner = "owner"

	// LocalsRequestID is the fiber locals key holding the request id.
	LocalsRequestID = "request_id"
)
