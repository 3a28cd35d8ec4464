package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrSettingsAccessRequired  = errors.New("timeclock settings access required")
	ErrManagerAccessRequired   = errors.New("manager access required")
)
