package backend

// Credentials is the body of POST /login
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /register
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the token that is also set as the jwt_token cookie
type LoginResponse struct {
	Token string `json:"token"`
}

// AuthStatus is returned by GET /protected/. The flag is a string on the wire.
type AuthStatus struct {
	Authenticated string `json:"authenticated"`
}

// IsAuthenticated reports whether the backend confirmed the session.
func (s AuthStatus) IsAuthenticated() bool {
	return s.Authenticated == "true"
}

// MessageResponse is the generic {"message": ...} acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the generic {"error": ...} failure body
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthStatus is the free-form body of GET /health
type HealthStatus map[string]string
