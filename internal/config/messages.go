package config

import "fmt"

const (
	errRequiredEnvNotSetFmt = "required environment variable %s is not set"
	errEnvOutOfRangeFmt     = "%s must be greater than zero, got %d"
)

type messageBuilders struct {
	requiredEnvNotSet func(string) error
	jwtSecretTooShort func() error
	envOutOfRange     func(string, int) error
	invalidLogFormat  func(string) error
}

func newMessageBuilders() messageBuilders {
	return messageBuilders{
		requiredEnvNotSet: func(key string) error {
			return fmt.Errorf(errRequiredEnvNotSetFmt, key)
		},
		jwtSecretTooShort: func() error {
			return fmt.Errorf(errJWTSecretMinLengthFmt, minJWTSecretLength)
		},
		envOutOfRange: func(key string, value int) error {
			return fmt.Errorf(errEnvOutOfRangeFmt, key, value)
		},
		invalidLogFormat: func(format string) error {
			return fmt.Errorf(errLogFormatInvalidFmt, format)
		},
	}
}

var messages = newMessageBuilders()
