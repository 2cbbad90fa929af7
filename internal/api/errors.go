package api

import "errors"

var (
	errInvalidBody     = errors.New("invalid request body")
	errInvalidCategory = errors.New("invalid category")
	errInvalidDate     = errors.New("date must be YYYY-MM-DD")
)
