package cli

import "fmt"

type notFoundError struct {
	id        string
	ambiguous bool
}

func (e notFoundError) Error() string {
	if e.ambiguous {
		return fmt.Sprintf("task id is ambiguous: %s", e.id)
	}
	return fmt.Sprintf("task not found: %s", e.id)
}

func errNotFound(id string) error {
	return notFoundError{id: id}
}

func errAmbiguous(id string) error {
	return notFoundError{id: id, ambiguous: true}
}
