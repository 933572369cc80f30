// Package session holds the client-side authentication state.
//
// A Store is created once by the application root, hydrated with a single
// Initialize call against the API's current-user endpoint, and then mutated
// through SetUser, ClearAuth and UpdateUser. Subscribers observe every write.
// The Store performs no sequencing of writes: callers must not call Initialize
// again after SetUser.
package session
