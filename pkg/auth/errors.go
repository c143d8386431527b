package auth

import "errors"

var errInvalidCredentials = errors.New("auth: invalid credentials")
