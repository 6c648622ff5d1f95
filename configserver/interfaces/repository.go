// Package interfaces declares what the config server handlers depend on.
package interfaces

import (
	"context"

	"edgemesh/configserver/domain"
)

// Repository loads the property sources of a service for a set of profiles.
//
//go:generate moq -stub -out mock/repository.go -pkg mock . Repository
type Repository interface {
	Find(ctx context.Context, service string, profiles []string) (domain.Environment, error)
}
