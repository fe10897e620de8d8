// Package session owns "who is signed in" and "what do they have favorited".
//
// A Manager is the single writer of session and favorites records. It keeps
// the current user and that user's favorites list in memory and mirrors every
// change to a kv.Store before returning to the caller.
//
// # Lifecycle
//
//	Uninitialized → Loading → SignedOut ⇄ SignedIn
//
// Load performs the initial transition from the persisted current-user
// record. Register and Login sign in; Logout signs out.
//
// # Persisted keys
//
//	{user, ""}           current User as JSON (absent when signed out)
//	{password, <name>}   credential encoded by the configured cryptox codec
//	{favorites, <name>}  JSON array of models.FavoriteEntry
//
// Credential and favorites records outlive sign-out. They are removed only by
// ClearUserData.
//
// # Errors
//
// A failed login is reported in LoginResult, never as an error. Store
// failures are wrapped with common.ErrStorageUnavailable. A favorites list
// that cannot be decoded is treated as empty and logged. The stored value is
// left in place until the user adds or removes a favorite.
//
// # Concurrency
//
// Methods are safe for concurrent use within one process. Two processes
// sharing a store file are not coordinated: the last writer wins.
package session
