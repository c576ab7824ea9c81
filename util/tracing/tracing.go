package tracing

// Context carries request identity through handlers and logs.
type Context struct {
	RequestID     string `json:"request_id"`
	RequestSource string `json:"request_source"`
}

func (c Context) String() string {
	return "request_id=" + c.RequestID + " source=" + c.RequestSource
}
