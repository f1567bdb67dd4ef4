package cli

import (
	"errors"
	"fmt"
)

var errDoctorIssuesFound = errors.New("doctor found errors")

type storeMissingError struct {
	path string
}

func (e storeMissingError) Error() string {
	return fmt.Sprintf("no template store at %s; run `clipdeck init` first", e.path)
}

func errStoreMissing(path string) error {
	return storeMissingError{path: path}
}

type invalidIDError struct {
	arg string
}

func (e invalidIDError) Error() string {
	return fmt.Sprintf("invalid template id: %q", e.arg)
}

func errInvalidID(arg string) error {
	return invalidIDError{arg: arg}
}
