package domain

// Member is one connected occupant's meta within a debate room.
// No transport or lifecycle logic here.
type Member struct {
	SessionID   SessionID
	DisplayName string
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(sid SessionID, displayName string) *Member {
	if displayName == "" {
		displayName = "Anonymous"
	}
	return &Member{SessionID: sid, DisplayName: ClampDisplayName(displayName)}
}

// ClampDisplayName enforces the display-name length cap. Every path
// that accepts a client-supplied name goes through here.
func ClampDisplayName(name string) string {
	if len(name) > MaxDisplayNameLen {
		return name[:MaxDisplayNameLen]
	}
	return name
}
