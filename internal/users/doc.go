// Package users provides an in-memory user directory for the CLI and tests.
package users
