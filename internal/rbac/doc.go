// Package rbac provides the role hierarchy used to gate FutureWise features.
//
// This package implements:
//   - A fixed rank table over role tags (viewer lowest, owner highest)
//   - Minimum-role comparison
//   - Derived capabilities (owner, system manager, tenant admin)
//
// The rank table and the capability chain are separate representations.
// Both must be edited together when a role is added.
package rbac
