package models

// AuthenticationRequest represents a login request
type AuthenticationRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthenticationResponse carries the signed access token issued on login
type AuthenticationResponse struct {
	Token string `json:"token"`
}
