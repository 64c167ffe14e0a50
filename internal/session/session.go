// Package session manages community-member sessions. It handles session
// creation, lookup, expiration, and storage of ephemeral session state
// backed by Redis.
package session
