// Package mattermost implements the platform adapter for Mattermost
// servers.
//
// The adapter speaks the v4 REST API for request/response operations and
// the v4 websocket endpoint for real-time events. Wire records live in
// types.go; convert.go maps them to the backend-neutral types in the
// platform package.
package mattermost
