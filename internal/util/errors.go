package util

import "errors"

var (
	ErrEmailRegistered  = errors.New("email is already registered")
	ErrChildNotFound    = errors.New("child not found")
	ErrActivityNotFound = errors.New("activity not found")
	ErrPermissionDenied = errors.New("permission denied")
)
