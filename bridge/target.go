package bridge

// Capabilities describes what the focused client negotiated with the
// input-method framework. Targets without surrounding-text support
// (typically terminals) cannot distinguish committed text from a pending
// preview, so previews are underlined for them and delete-before-cursor
// is unsafe for producers to rely on.
type Capabilities struct {
	SurroundingText bool
}

// Target is the text-insertion surface of the currently focused client.
// The Dispatcher is the only caller, and it only calls from its run loop.
type Target interface {
	Commit(text string)
	ShowPreview(text string, underline bool)
	HidePreview()
	DeleteBeforeCursor(count int)
	Capabilities() Capabilities
}
