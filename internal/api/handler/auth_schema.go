package handler

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email,max=256"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Message string `json:"message,omitempty"`
	Email   string `json:"email"`
	Token   string `json:"token"`
}

// partialRegistrationResponse tells the client the account exists but it has
// to sign in again.
type partialRegistrationResponse struct {
	Error          string `json:"error"`
	Email          string `json:"email"`
	AccountCreated bool   `json:"account_created"`
}
