package providers

import (
	"errors"
	"fmt"
	"os"
)

var errEmptyResponse = errors.New("provider returned no choices")

func lookupEnv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

func errMissingEnv(apiKeyEnv string) error {
	return fmt.Errorf("environment variable %s is not set", apiKeyEnv)
}
