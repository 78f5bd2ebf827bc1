package errors

import "fmt"

type UnknownManeuverError struct {
	Action string
}

func (err UnknownManeuverError) Error() string {
	if len(err.Action) == 0 {
		err.Action = "UNKNOWN"
	}
	return fmt.Sprintf("no such maneuver %s", err.Action)
}

type NodeVersionError struct {
	Node       uint32
	Version    string
	Constraint string
}

func (err NodeVersionError) Error() string {
	return fmt.Sprintf("unable to use node %d: received version %s - require %s",
		err.Node, err.Version, err.Constraint)
}

type NoSuchProfileError struct {
	Name string
}

func (err NoSuchProfileError) Error() string {
	return fmt.Sprintf("no such profile %s", err.Name)
}
