// Package domain holds the config server's property sources and their lookup order.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"hash"
	"regexp"
	"strings"
)

// SharedName is the application name whose sources every service receives.
const SharedName = "application"

// ErrInvalidName is returned for service or profile names that are not a single path-safe token.
var ErrInvalidName = errors.New("invalid name")

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9._-]*$`)

// PropertySource is one file's flattened properties.
type PropertySource struct {
	Name   string            `json:"name"`
	Source map[string]string `json:"source"`
}

// Environment is what a service receives for (service, profiles). PropertySources are ordered most
// specific first; the first source holding a key wins.
type Environment struct {
	Name            string           `json:"name"`
	Profiles        []string         `json:"profiles"`
	Version         string           `json:"version"`
	PropertySources []PropertySource `json:"propertySources"`
}

// ValidateName rejects names that could escape the config directory or are empty.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) || strings.Contains(name, "..") {
		return ErrInvalidName
	}
	return nil
}

// ParseProfiles splits a comma separated profile list, dropping blanks. An empty list yields
// ["default"].
func ParseProfiles(raw string) ([]string, error) {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if err := ValidateName(p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		out = []string{"default"}
	}
	return out, nil
}

// SourceNames lists the base names (without extension) to look up, most specific first:
// {service}-{profile} for each profile (last profile first), {service}, then the same for
// application. The shared names are not repeated when service is application.
func SourceNames(service string, profiles []string) []string {
	names := make([]string, 0, 2*(len(profiles)+1))
	apps := []string{service}
	if service != SharedName {
		apps = append(apps, SharedName)
	}
	for _, app := range apps {
		for i := len(profiles) - 1; i >= 0; i-- {
			names = append(names, app+"-"+profiles[i])
		}
		names = append(names, app)
	}
	return names
}

// Version hashes the raw content of each loaded source, in order, into a hex SHA-256.
type Version struct {
	h hash.Hash
}

// NewVersion starts an empty version hash.
func NewVersion() *Version {
	return &Version{h: sha256.New()}
}

// Add folds one source into the version.
func (v *Version) Add(name string, raw []byte) {
	v.h.Write([]byte(name))
	v.h.Write([]byte{0})
	v.h.Write(raw)
	v.h.Write([]byte{0})
}

// String is the hex digest of everything added so far.
func (v *Version) String() string {
	return hex.EncodeToString(v.h.Sum(nil))
}
