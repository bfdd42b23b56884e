package fbi

import "errors"

// ErrNoUser indicates the status query answered without a user payload,
// which means the access token is not tied to a logged-in patron.
var ErrNoUser = errors.New("status query returned no user")
