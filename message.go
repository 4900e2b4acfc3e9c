package fix

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/0x5487/fixcore/protocol"
)

// Message is a FIX message split into its standard header, body and
// standard trailer. BodyLength and CheckSum are derived on every Build.
type Message struct {
	Header  *FieldMap
	Body    *FieldMap
	Trailer *FieldMap
}

// NewMessage creates an empty message whose sections use the header, numeric
// and trailer orderings.
func NewMessage() *Message {
	return &Message{
		Header:  NewFieldMap(HeaderOrder()),
		Body:    NewFieldMap(NormalOrder()),
		Trailer: NewFieldMap(TrailerOrder()),
	}
}

// MsgType returns the value of tag 35, or "" when it is not set.
func (m *Message) MsgType() string {
	msgType, _ := m.Header.Get(protocol.TagMsgType)
	return msgType
}

// IsAdmin reports whether the message belongs to the session layer.
func (m *Message) IsAdmin() bool {
	msgType, ok := m.Header.Get(protocol.TagMsgType)
	return ok && protocol.IsAdminMsgType(msgType)
}

// Clone returns a deep copy of the message.
func (m *Message) Clone() *Message {
	return &Message{
		Header:  m.Header.Clone(),
		Body:    m.Body.Clone(),
		Trailer: m.Trailer.Clone(),
	}
}

// Build serializes the message. BodyLength is stored in the header and
// CheckSum in the trailer as a side effect, so the message reads back exactly
// what was sent.
func (m *Message) Build() []byte {
	content := m.Header.appendTo(make([]byte, 0, 256), isBeginOrBodyLength)
	content = m.Body.AppendTo(content)
	content = m.Trailer.appendTo(content, isCheckSum)

	bodyLength := strconv.Itoa(len(content))
	m.Header.Set(protocol.TagBodyLength, bodyLength)

	out := make([]byte, 0, len(content)+32)
	if begin, ok := m.Header.Get(protocol.TagBeginString); ok {
		out = appendField(out, protocol.TagBeginString, begin)
	}
	out = appendField(out, protocol.TagBodyLength, bodyLength)
	out = append(out, content...)

	sum := formatChecksum(checksum(out))
	m.Trailer.Set(protocol.TagCheckSum, sum)
	return appendField(out, protocol.TagCheckSum, sum)
}

// String returns Build with SOH shown as '|'.
func (m *Message) String() string {
	return string(bytes.ReplaceAll(m.Build(), []byte{SOH}, []byte{'|'}))
}

func isBeginOrBodyLength(tag int) bool {
	return tag == protocol.TagBeginString || tag == protocol.TagBodyLength
}

func isCheckSum(tag int) bool {
	return tag == protocol.TagCheckSum
}

// ParseMessage reads wire text into a new Message without a data dictionary.
// Standard header tags go to the header, SignatureLength, Signature and
// CheckSum to the trailer and everything else to the body. Repeating groups
// are kept as flat fields.
func ParseMessage(data []byte) (*Message, error) {
	m := NewMessage()
	for pos := 0; pos < len(data); {
		f, next, err := scanField(data, pos, -1)
		if err != nil {
			return nil, err
		}
		switch {
		case protocol.IsHeaderTag(f.Tag):
			m.Header.Set(f.Tag, f.Value)
		case protocol.IsTrailerTag(f.Tag):
			m.Trailer.Set(f.Tag, f.Value)
		default:
			m.Body.Set(f.Tag, f.Value)
		}
		pos = next
	}
	return m, nil
}

// VerifyFraming checks that data starts with BeginString, BodyLength and
// MsgType, ends with CheckSum, and that the declared BodyLength and CheckSum
// match the bytes actually received.
func VerifyFraming(data []byte) error {
	pos := 0
	expect := [...]int{protocol.TagBeginString, protocol.TagBodyLength, protocol.TagMsgType}
	var bodyLength string
	bodyStart := 0
	for _, tag := range expect {
		if pos >= len(data) {
			return fmt.Errorf("%w: truncated header", ErrInvalidMessage)
		}
		f, next, err := scanField(data, pos, -1)
		if err != nil {
			return err
		}
		if f.Tag != tag {
			return fmt.Errorf("%w: expected tag %d at offset %d, got %d", ErrInvalidMessage, tag, pos, f.Tag)
		}
		if tag == protocol.TagBodyLength {
			bodyLength = f.Value
			bodyStart = next
		}
		pos = next
	}

	checksumStart := bytes.LastIndex(data, []byte{SOH, '1', '0', '='}) + 1
	if checksumStart < pos {
		return fmt.Errorf("%w: missing CheckSum", ErrInvalidMessage)
	}
	f, next, err := scanField(data, checksumStart, -1)
	if err != nil {
		return err
	}
	if next != len(data) {
		return fmt.Errorf("%w: data after CheckSum", ErrInvalidMessage)
	}

	declared, err := strconv.Atoi(bodyLength)
	if err != nil || declared != checksumStart-bodyStart {
		return fmt.Errorf("%w: BodyLength %q, actual %d", ErrInvalidMessage, bodyLength, checksumStart-bodyStart)
	}

	actual := formatChecksum(checksum(data[:checksumStart]))
	if f.Value != actual {
		return fmt.Errorf("%w: CheckSum %q, actual %s", ErrInvalidMessage, f.Value, actual)
	}
	return nil
}
