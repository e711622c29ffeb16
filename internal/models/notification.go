package models

// Notification is a user-visible message. Info is an optional second line.
type Notification struct {
	Title   string
	Message string
	Info    string
}

// Body joins message and info the way the desktop notification shows them.
func (n Notification) Body() string {
	if n.Info == "" {
		return n.Message
	}
	return n.Message + "\n" + n.Info
}
