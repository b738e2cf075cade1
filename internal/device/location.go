// Package device abstracts the platform services the client depends on:
// the location service and the image picker. Both are external collaborators
// with a single-shot resolve-or-fail contract.
package device

import (
	"context"
	"errors"
)

// ErrPermissionDenied indicates the user declined the location permission.
// Callers must surface it and abort the operation that needed coordinates.
var ErrPermissionDenied = errors.New("location permission denied")

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// LocationProvider acquires the device's current position.
type LocationProvider interface {
	Current(ctx context.Context) (Coordinates, error)
}

// LocationFunc adapts a function to the LocationProvider interface.
type LocationFunc func(ctx context.Context) (Coordinates, error)

func (f LocationFunc) Current(ctx context.Context) (Coordinates, error) {
	return f(ctx)
}

// StaticLocation always reports the same position. The CLI builds one from
// configuration or flags; permission is modeled by the granted switch.
type StaticLocation struct {
	Coords  Coordinates
	Granted bool
}

func (s StaticLocation) Current(_ context.Context) (Coordinates, error) {
	if !s.Granted {
		return Coordinates{}, ErrPermissionDenied
	}
	return s.Coords, nil
}
