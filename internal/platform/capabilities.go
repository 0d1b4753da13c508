package platform

// Capabilities describes what a backend implementation supports. One
// instance is constructed per adapter as a plain struct literal and is
// read-only afterward. Consumers check flags before calling the optional
// operations they gate.
type Capabilities struct {
	// PlatformName identifies the backend (e.g. "mattermost", "slack").
	PlatformName string

	// PlatformVersion is the backend API version, when meaningful.
	PlatformVersion string

	// Organizational features
	HasWorkspaces bool
	HasThreads    bool

	// Messaging features
	SupportsMessageEditing  bool
	SupportsMessageDeletion bool
	SupportsReactions       bool
	SupportsFileAttachments bool
	SupportsRichText        bool

	// Status and presence
	SupportsStatus           bool
	SupportsCustomStatus     bool
	SupportsTypingIndicators bool

	// Channel features
	SupportsPublicChannels  bool
	SupportsPrivateChannels bool
	SupportsDirectMessages  bool
	SupportsGroupMessages   bool

	// Real-time features
	SupportsRealtimeEvents bool
	SupportsWebhooks       bool

	// Search and history
	SupportsSearch         bool
	SupportsMessageHistory bool
}
