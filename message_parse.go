package fix

import (
	"bytes"
	"log/slog"
	"strconv"

	"github.com/0x5487/fixcore/protocol"
)

type section uint8

const (
	sectionHeader section = iota
	sectionBody
	sectionTrailer
)

// ParseMessageWithDictionary reads wire text into a new Message using dd to
// route fields, rebuild repeating groups (nested ones included) and read
// length prefixed DATA fields that may contain SOH.
//
// Group counts are kept as received, so a count that disagrees with the
// repetitions on the wire is reported by Validate, not here. When the out of
// order check is enabled, header fields after the body and body fields after
// the trailer are rejected with ErrTagOutOfOrder.
func ParseMessageWithDictionary(data []byte, dd *DataDictionary) (*Message, error) {
	p := &parser{r: wireReader{data: data, dd: dd}, dd: dd}
	m, err := p.parse()
	if err != nil {
		logger.Debug("message parse rejected",
			slog.String("msg_type", p.msgType),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return m, nil
}

type parser struct {
	r       wireReader
	dd      *DataDictionary
	msgType string
}

func (p *parser) parse() (*Message, error) {
	m := NewMessage()
	checkOrder := p.dd.flags.checkFieldsOutOfOrder.Load()
	current := sectionHeader

	for !p.r.done() {
		f, err := p.r.read()
		if err != nil {
			return nil, err
		}

		switch {
		case p.dd.inHeader(f.Tag):
			if checkOrder && current != sectionHeader {
				return nil, newValidationError(ErrTagOutOfOrder, f.Tag, p.msgType)
			}
			m.Header.Set(f.Tag, f.Value)
			if f.Tag == protocol.TagMsgType {
				p.msgType = f.Value
				m.Body = p.bodyFor(m.Body)
			}
			if err := p.parseGroup(m.Header, headerContext, f.Tag); err != nil {
				return nil, err
			}

		case p.dd.inTrailer(f.Tag):
			current = sectionTrailer
			m.Trailer.Set(f.Tag, f.Value)
			if err := p.parseGroup(m.Trailer, trailerContext, f.Tag); err != nil {
				return nil, err
			}

		default:
			if checkOrder && current == sectionTrailer {
				return nil, newValidationError(ErrTagOutOfOrder, f.Tag, p.msgType)
			}
			current = sectionBody
			m.Body.Set(f.Tag, f.Value)
			if err := p.parseGroup(m.Body, p.msgType, f.Tag); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// bodyFor switches the body to the declared field order of the message type
// once it is known, if the dictionary preserves message field order.
func (p *parser) bodyFor(body *FieldMap) *FieldMap {
	if !p.dd.flags.preserveMessageFieldsOrder.Load() {
		return body
	}
	order := p.dd.MessageFieldOrder(p.msgType)
	if len(order) == 0 {
		return body
	}
	ordered := NewFieldMap(GroupOrder(order))
	ordered.CopyFrom(body)
	return ordered
}

// parseGroup reads the repetitions following the count field tag, if tag
// counts a group in ctx. A repetition starts at the delimiter and ends at the
// next delimiter, at a field that is not a member, or at a member seen twice.
func (p *parser) parseGroup(fm *FieldMap, ctx string, tag int) error {
	info, ok := p.dd.Group(ctx, tag)
	if !ok {
		return nil
	}
	return p.readRepetitions(fm, ctx, tag, info)
}

func (p *parser) readRepetitions(fm *FieldMap, ctx string, tag int, info *GroupInfo) error {
	gdd := info.Dictionary
	var g *Group
	for !p.r.done() {
		f, err := p.r.read()
		if err != nil {
			return err
		}

		switch {
		case f.Tag == info.Delim:
			g = info.newGroup(ctx, tag)
			fm.addGroup(tag, g, false)
		case g != nil && gdd.IsMsgField(ctx, f.Tag) && !g.Has(f.Tag):
		default:
			p.r.unread()
			return nil
		}

		g.Set(f.Tag, f.Value)
		if nested, ok := gdd.Group(ctx, f.Tag); ok {
			if err := p.readRepetitions(g.FieldMap, ctx, f.Tag, nested); err != nil {
				return err
			}
		}
	}
	return nil
}

func (dd *DataDictionary) inHeader(tag int) bool {
	if len(dd.header) == 0 {
		return protocol.IsHeaderTag(tag)
	}
	return dd.IsHeaderField(tag)
}

func (dd *DataDictionary) inTrailer(tag int) bool {
	if len(dd.trailer) == 0 {
		return protocol.IsTrailerTag(tag)
	}
	return dd.IsTrailerField(tag)
}

// wireReader hands out fields one at a time and can step back by one field,
// which is all the lookahead group parsing needs.
type wireReader struct {
	data []byte
	dd   *DataDictionary
	pos  int
	prev Field

	lastPos  int
	lastPrev Field
}

func (r *wireReader) done() bool {
	return r.pos >= len(r.data)
}

func (r *wireReader) read() (Field, error) {
	dataLen := -1
	if tag, ok := peekTag(r.data[r.pos:]); ok && r.dd.IsDataField(tag) {
		if n, err := strconv.Atoi(r.prev.Value); err == nil && n >= 0 {
			dataLen = n
		}
	}

	f, next, err := scanField(r.data, r.pos, dataLen)
	if err != nil {
		return Field{}, err
	}
	r.lastPos, r.lastPrev = r.pos, r.prev
	r.pos, r.prev = next, f
	return f, nil
}

func (r *wireReader) unread() {
	r.pos, r.prev = r.lastPos, r.lastPrev
}

func peekTag(data []byte) (int, bool) {
	eq := bytes.IndexByte(data, '=')
	if eq < 0 {
		return 0, false
	}
	tag, err := parseTag(data[:eq])
	return tag, err == nil
}
