package types

// InputMode records which payload source feeds the QR display
type InputMode int

const (
	// ModeNone means no QR code is shown; the input cards are editable
	ModeNone InputMode = iota
	// ModeText shows the trimmed text payload
	ModeText
	// ModeFile shows the URL returned by the upload service
	ModeFile
)

// String returns the mode name used in logs
func (m InputMode) String() string {
	switch m {
	case ModeText:
		return "text"
	case ModeFile:
		return "file"
	default:
		return "none"
	}
}
