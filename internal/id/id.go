// Package id generates the opaque string identifiers used for sessions, token ids and short links.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// shortCodeAlphabet avoids '-' and '_' so codes survive copy/paste and chat link detection.
const shortCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// ShortCodeLength is the length of recipe short-link codes.
const ShortCodeLength = 8

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "session-V1StGXR8_Z5jdHi6B-myT")
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use this only when failure should crash the program (e.g., during initialization).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// ShortCode creates an alphanumeric code for recipe short links.
func ShortCode() (string, error) {
	code, err := gonanoid.Generate(shortCodeAlphabet, ShortCodeLength)
	if err != nil {
		return "", fmt.Errorf("generate short code: %w", err)
	}
	return code, nil
}
