// Package store implements the Olympus persistence layer: whole-record
// key/value storage split into independent namespaces, each with an ordered
// key index so listings never scan directories or key spaces.
//
// Backends deal in raw bytes. Namespace layers JSON encoding on top and is
// what the memory tiers use.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	olyerrors "github.com/mrz1836/olympus/internal/errors"
)

// Backend is the raw persistence contract shared by every storage engine.
type Backend interface {
	// Save overwrites the record under key and adds key to the namespace
	// index if it is new. Index order is first-save order.
	Save(ctx context.Context, namespace, key string, data []byte) error

	// Load returns the record under key, or an error wrapping
	// ErrRecordNotFound when there is none.
	Load(ctx context.Context, namespace, key string) ([]byte, error)

	// ListKeys returns every key in the namespace index in first-save order.
	ListKeys(ctx context.Context, namespace string) ([]string, error)

	// Close releases connections and handles.
	Close() error
}

// ValidateKey rejects keys and namespaces that could escape their key space.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key %w", olyerrors.ErrEmptyValue)
	}
	if strings.ContainsAny(key, `/\:`+"\x00") || strings.Contains(key, "..") || strings.TrimSpace(key) != key {
		return fmt.Errorf("key %q: %w", key, olyerrors.ErrInvalidKey)
	}
	return nil
}

func validate(namespace, key string) error {
	if err := ValidateKey(namespace); err != nil {
		return fmt.Errorf("namespace: %w", err)
	}
	return ValidateKey(key)
}

// Namespace is a JSON view over one key space of a Backend.
type Namespace struct {
	backend Backend
	name    string
}

// NewNamespace binds name on backend.
func NewNamespace(backend Backend, name string) *Namespace {
	return &Namespace{backend: backend, name: name}
}

// Name returns the namespace name.
func (n *Namespace) Name() string {
	return n.name
}

// Save encodes v as JSON and writes it under key.
func (n *Namespace) Save(ctx context.Context, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", n.name, key, err)
	}
	return n.backend.Save(ctx, n.name, key, data)
}

// Load decodes the record under key into v. A record that is present but
// not valid JSON yields an error wrapping ErrRecordCorrupted.
func (n *Namespace) Load(ctx context.Context, key string, v any) error {
	data, err := n.backend.Load(ctx, n.name, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s/%s: %w: %w", n.name, key, olyerrors.ErrRecordCorrupted, err)
	}
	return nil
}

// Keys lists the namespace index.
func (n *Namespace) Keys(ctx context.Context) ([]string, error) {
	return n.backend.ListKeys(ctx, n.name)
}
