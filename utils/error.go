package utils

import (
	"errors"
	"fmt"
)

var ErrorRecordNotFound = errors.New("record not found")

// ErrorValidation marks input rejected before any state was touched.
var ErrorValidation = errors.New("validation failed")

// ErrorConfiguration marks missing or unusable plant configuration (e.g. recipes).
var ErrorConfiguration = errors.New("configuration error")

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrorRecordNotFound, fmt.Sprintf(format, args...))
}

func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrorValidation, fmt.Sprintf(format, args...))
}

func Misconfiguredf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrorConfiguration, fmt.Sprintf(format, args...))
}

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
