// Package appid validates and derives the three linked representations of
// an application identifier: a namespaced form, a plain form, and a
// deterministic v5 UUID. It performs no I/O.
package appid

import (
	"strings"

	"github.com/google/uuid"

	"github.com/gurre/selfinstall/ierr"
)

// namespace is the fixed internal namespace UUID every AppId's v5 UUID is
// derived from. It must never change: doing so would silently re-derive a
// different UUID for every existing installation.
var namespace = uuid.MustParse("0192391a-2817-7e1c-988d-5aef70264a82")

// AppId identifies an application in namespaced, plain, and UUID form.
//
//	id, err := appid.New("io.crates.my_app")
type AppId struct {
	namespacedID string
	plainID      string
	uuid         uuid.UUID
}

// New validates namespacedID and derives the plain ID and UUID from it.
func New(namespacedID string) (AppId, error) {
	if err := Validate(namespacedID); err != nil {
		return AppId{}, err
	}

	segments := strings.Split(namespacedID, ".")

	return AppId{
		namespacedID: namespacedID,
		plainID:      segments[len(segments)-1],
		uuid:         ToUUID(namespacedID),
	}, nil
}

// NamespacedID returns the reverse-DNS-like form, e.g. "io.crates.my_app".
func (a AppId) NamespacedID() string { return a.namespacedID }

// PlainID returns the last segment of the namespaced ID, e.g. "my_app".
func (a AppId) PlainID() string { return a.plainID }

// UUID returns the derived v5 UUID. Equality and hashing of an AppId are
// defined by this value.
func (a AppId) UUID() uuid.UUID { return a.uuid }

// Equal reports whether a and other share the same derived UUID.
func (a AppId) Equal(other AppId) bool {
	return a.uuid == other.uuid
}

// Validate reports whether value is an acceptable namespaced ID: total
// length at most 100; at least two dot-separated segments; every segment at
// least 2 characters, consisting only of ASCII alphanumerics, hyphen, or
// underscore, and starting with an ASCII letter.
func Validate(value string) error {
	if len(value) > 100 {
		return ierr.New(ierr.KindInvalidInput).WithContext("namespaced id exceeds 100 characters")
	}

	segments := strings.Split(value, ".")
	if len(segments) < 2 {
		return ierr.New(ierr.KindInvalidInput).WithContext("namespaced id must have at least 2 segments")
	}

	for _, segment := range segments {
		if len(segment) < 2 {
			return ierr.New(ierr.KindInvalidInput).WithContext("namespaced id segment must be at least 2 characters")
		}

		for i, r := range segment {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
				continue
			case r >= '0' && r <= '9', r == '-', r == '_':
				if i == 0 {
					return ierr.New(ierr.KindInvalidInput).WithContext("namespaced id segment must start with a letter")
				}
				continue
			default:
				return ierr.New(ierr.KindInvalidInput).WithContext("namespaced id segment has an invalid character")
			}
		}
	}

	return nil
}

// Normalize lowercases value and replaces every hyphen with an underscore,
// matching the normalization applied before UUID derivation.
func Normalize(value string) string {
	return strings.ToLower(strings.ReplaceAll(value, "-", "_"))
}

// ToUUID returns the v5 UUID derived from value's normalized form. It is
// stable across runs and platforms for a fixed value.
func ToUUID(value string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(Normalize(value)))
}
