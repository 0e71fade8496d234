package models

// SessionEntry is a sidebar row for a saved session.
type SessionEntry struct {
	ID           string
	Title        string
	MessageCount int
}

// AppModel represents the UI state - only local UI concerns. Displayed
// messages live in the message list component, not here.
type AppModel struct {
	Status      string         // Status bar text
	Generating  bool           // A turn is in flight in the core
	LoadingDots int            // Animation counter for the status bar
	Width       int            // Terminal width
	Height      int            // Terminal height
	Model       string         // Active model name for the sidebar
	Sessions    []SessionEntry // Recent sessions for the sidebar
	SessionID   string         // Active session id
	ToolCount   int            // Number of MCP tools advertised
	ToolsReady  bool           // MCP layer is enabled and connected
}
