package handler

const (
	msgInternalServer     = "Internal server error"
	msgInvalidBody        = "Invalid JSON body"
	msgInvalidID          = "Invalid id"
	msgPersonNotFound     = "Person not found"
	msgUsernameTaken      = "Username is already taken"
	msgInvalidCredentials = "Invalid username or password"
	msgPasswordTooLong    = "Password must not exceed 72 bytes"
	msgBodyTooLarge       = "Request body too large"
)
