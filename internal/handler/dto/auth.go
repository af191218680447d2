// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// SignUpRequest represents the request body for POST /signup.
type SignUpRequest struct {
	Login      string `json:"login"`
	Password   string `json:"password"`
	PublicName string `json:"publicName,omitempty"`
	Userpic    string `json:"userpic,omitempty"`
}

// LoginRequest represents the request body for POST /login.
// Both fields may be absent when a token header is sent.
type LoginRequest struct {
	Login    string `json:"login,omitempty"`
	Password string `json:"password,omitempty"`
}

// ErrorResponse is the body of every auth error.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody identifies an error by a stable code.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
