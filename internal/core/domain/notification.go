package domain

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// A Notification is the single transient message shown to the shopper.
//
// Seq grows with every shown notification; a dismissal carrying an older
// Seq does not hide a newer message.
type Notification struct {
	Seq     uint64
	Message string
	Level   Level
	Visible bool
}
