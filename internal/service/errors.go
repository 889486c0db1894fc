package service

import "errors"

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrRecordNotFound = errors.New("sleep record not found")
	ErrForbidden      = errors.New("access to another user's records is forbidden")
	ErrNoRecords      = errors.New("no sleep records in the requested period")
)
