package store

import "fmt"

// ProfileExistsError reports a save against a taken name without overwrite.
type ProfileExistsError struct {
	Name string
}

func (e *ProfileExistsError) Error() string {
	return fmt.Sprintf("profile %q already exists; choose a different name or delete the existing profile", e.Name)
}

// ProfileNotFoundError reports a load or delete against an unknown name.
type ProfileNotFoundError struct {
	Name string
}

func (e *ProfileNotFoundError) Error() string {
	return fmt.Sprintf("profile %q not found; run the list command to see saved profiles", e.Name)
}
