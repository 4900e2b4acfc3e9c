package fix

import (
	"strings"
)

// SessionID identifies a FIX session. It is a comparable value and can be used
// as a map key; build a new one to change any part.
type SessionID struct {
	beginString  string
	senderCompID string
	targetCompID string
	qualifier    string
	str          string
}

// NewSessionID creates a SessionID. qualifier may be empty.
func NewSessionID(beginString, senderCompID, targetCompID, qualifier string) SessionID {
	var sb strings.Builder
	sb.Grow(len(beginString) + len(senderCompID) + len(targetCompID) + len(qualifier) + 4)
	sb.WriteString(beginString)
	sb.WriteByte(':')
	sb.WriteString(senderCompID)
	sb.WriteString("->")
	sb.WriteString(targetCompID)
	if qualifier != "" {
		sb.WriteByte(':')
		sb.WriteString(qualifier)
	}

	return SessionID{
		beginString:  beginString,
		senderCompID: senderCompID,
		targetCompID: targetCompID,
		qualifier:    qualifier,
		str:          sb.String(),
	}
}

// ParseSessionID parses BEGIN:SENDER->TARGET[:QUALIFIER]. The qualifier is
// whatever follows the last ':' after the "->".
func ParseSessionID(s string) (SessionID, bool) {
	first := strings.IndexByte(s, ':')
	arrow := strings.Index(s, "->")
	if first < 0 || arrow < 0 || arrow < first {
		return SessionID{}, false
	}

	begin := s[:first]
	sender := s[first+1 : arrow]
	target := s[arrow+2:]
	qualifier := ""
	if last := strings.LastIndexByte(s, ':'); last > arrow {
		target = s[arrow+2 : last]
		qualifier = s[last+1:]
	}
	return NewSessionID(begin, sender, target, qualifier), true
}

// BeginString returns the protocol version, e.g. "FIX.4.4".
func (id SessionID) BeginString() string {
	return id.beginString
}

// SenderCompID returns the local party.
func (id SessionID) SenderCompID() string {
	return id.senderCompID
}

// TargetCompID returns the remote party.
func (id SessionID) TargetCompID() string {
	return id.targetCompID
}

// Qualifier returns the optional qualifier, "" when absent.
func (id SessionID) Qualifier() string {
	return id.qualifier
}

// IsFIXT reports whether the session runs the FIXT transport protocol.
func (id SessionID) IsFIXT() bool {
	return strings.HasPrefix(id.beginString, "FIXT")
}

// IsZero reports whether id is the zero value.
func (id SessionID) IsZero() bool {
	return id == SessionID{}
}

// String returns the canonical BEGIN:SENDER->TARGET[:QUALIFIER] form.
func (id SessionID) String() string {
	return id.str
}
