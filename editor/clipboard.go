package editor

// Clipboard provides editor-level clipboard integration.
//
// Errors never reach the host; they are logged at debug level and the
// command is dropped.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(s string) error
}
