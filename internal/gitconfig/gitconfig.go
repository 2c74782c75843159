// Package gitconfig reads and writes git's global configuration through the
// git binary, so includes and XDG locations are handled by git itself.
package gitconfig

import (
	"context"

	"github.com/rileyhilliard/gitsetup/internal/errors"
	"github.com/rileyhilliard/gitsetup/internal/shell"
)

// Keys gitsetup manages.
const (
	KeyUserName   = "user.name"
	KeyUserEmail  = "user.email"
	KeySigningKey = "user.signingkey"
	KeyGPGProgram = "gpg.program"
	KeyGPGSign    = "commit.gpgsign"
)

// Entry is one key/value pair.
type Entry struct {
	Key   string
	Value string
}

// Client talks to `git config --global`.
type Client struct {
	gw shell.Gateway
}

// New returns a Client using gw.
func New(gw shell.Gateway) *Client {
	return &Client{gw: gw}
}

// Get returns the global value for key, or "" when unset or git fails.
func (c *Client) Get(ctx context.Context, key string) string {
	return c.gw.Run(ctx, "git", "config", "--global", key).Stdout
}

// Set writes key=value globally.
func (c *Client) Set(ctx context.Context, key, value string) error {
	if !c.gw.Run(ctx, "git", "config", "--global", key, value).Success {
		return errors.New(errors.ErrFilesystem,
			"Couldn't set git config "+key,
			"Try it by hand: "+shell.CommandLine("git", "config", "--global", key, value))
	}
	return nil
}

// Apply sets entries in order, stopping at the first failure.
func (c *Client) Apply(ctx context.Context, entries []Entry) error {
	for _, e := range entries {
		if err := c.Set(ctx, e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot reads back the current values of keys.
func (c *Client) Snapshot(ctx context.Context, keys ...string) []Entry {
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, Entry{Key: k, Value: c.Get(ctx, k)})
	}
	return out
}

// SigningEntries are the settings that turn on signed commits with keyID.
func SigningEntries(keyID, name, email, program string) []Entry {
	return []Entry{
		{Key: KeySigningKey, Value: keyID},
		{Key: KeyUserName, Value: name},
		{Key: KeyUserEmail, Value: email},
		{Key: KeyGPGProgram, Value: program},
		{Key: KeyGPGSign, Value: "true"},
	}
}

// ManagedKeys lists the keys SigningEntries writes, in the same order.
func ManagedKeys() []string {
	return []string{KeySigningKey, KeyUserName, KeyUserEmail, KeyGPGProgram, KeyGPGSign}
}
