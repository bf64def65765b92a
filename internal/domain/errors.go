package domain

import "errors"

// ErrNotFound is returned by repositories when a row does not exist or belongs to another user.
var ErrNotFound = errors.New("not found")
