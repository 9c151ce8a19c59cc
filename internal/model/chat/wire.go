package chat

// Request is the body POSTed to the chat endpoint.
type Request struct {
	Message string `json:"message"`
}

// Reply is the success body returned by the chat endpoint. Reply is a
// pointer so an absent field can be told apart from an empty one.
type Reply struct {
	Reply *string `json:"reply,omitempty"`
	Error string  `json:"error,omitempty"`
}
