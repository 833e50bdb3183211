// Package timeouts defines shared timeout constants used across the tool.
// Centralizing these values keeps the defaults discoverable.
package timeouts

import "time"

// ProfileRequest caps one HTTP round trip to the profile name service.
const ProfileRequest = 10 * time.Second

// LookupPacing is the pause each name lookup takes before calling out, so a
// large player list does not burst the profile service.
const LookupPacing = 5 * time.Second

// LookupConcurrency bounds how many name lookups are in flight at once.
const LookupConcurrency = 8

// NameCacheTTL is how long a cached display name is trusted.
const NameCacheTTL = 24 * time.Hour

// Command caps one whole CLI invocation.
const Command = 10 * time.Minute

// TelemetryShutdown limits how long pending spans may take to flush on exit.
const TelemetryShutdown = 5 * time.Second
