// Package platform defines the backend-neutral chat model: domain records
// (messages, channels, users, teams), the real-time event union, connection
// state, the capability descriptor, and the Platform interface that every
// backend adapter implements.
//
// Consumers pick a concrete adapter at construction time and should consult
// Capabilities before calling optional operations; adapters do not enforce
// capability checks themselves.
package platform
