// Package vault defines the vault interface for secrets management.
package vault

import (
	"context"
)

// Vault defines the interface for vault/secrets operations.
type Vault interface {
	// GetSecret retrieves a secret from the vault by URI.
	// Returns the secret value or an error if not found.
	GetSecret(ctx context.Context, uri string) (string, error)

	// Ping checks if the vault connection is alive.
	Ping(ctx context.Context) error

	// Close closes the vault connection.
	Close() error
}

// Client is a higher-level vault client that wraps the Vault interface.
type Client interface {
	// GetVault returns the underlying Vault implementation.
	GetVault() Vault

	// GetSecret retrieves a secret from the vault.
	GetSecret(ctx context.Context, uri string) (string, error)

	// Ping checks if the vault connection is alive.
	Ping(ctx context.Context) error

	// Close closes the vault client connection.
	Close() error
}

// Type represents the type of vault.
type Type string

const (
	// TypeDotEnv represents a DotEnv vault (for development).
	TypeDotEnv Type = "dotenv"
)
