package types

// The storefront API speaks the wire format its browser clients already
// expect: bare JSON payloads on success, an error envelope on failure.

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
