package fix

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/0x5487/fixcore/protocol"
	"github.com/quagmt/udecimal"
	"github.com/shopspring/decimal"
)

// sectionRules ties a message section to the rules it is validated against.
type sectionRules struct {
	fields   *FieldMap
	ctx      string
	member   func(tag int) bool
	order    []int
	required func(tag int) bool
}

// Validate checks msg against the dictionary in phases, each one over the
// header, body and trailer (group repetitions included) before the next
// starts: the message type is known and matches the dictionary version, every
// tag is known and defined for the message, every value is present, well
// formed and allowed, every required field is present, and every group count
// matches its repetitions. The first failure is returned as a *ValidationError.
func (dd *DataDictionary) Validate(msg *Message) error {
	err := dd.validate(msg)
	if err != nil {
		logger.Debug("message rejected by data dictionary",
			slog.String("msg_type", msg.MsgType()),
			slog.String("error", err.Error()),
		)
	}
	return err
}

func (dd *DataDictionary) validate(msg *Message) error {
	msgType, ok := msg.Header.Get(protocol.TagMsgType)
	if !ok {
		return newValidationError(ErrRequiredTagMissing, protocol.TagMsgType, "")
	}
	if !dd.IsMsgType(msgType) {
		return newValidationError(ErrInvalidMessageType, protocol.TagMsgType, msgType)
	}
	if begin, ok := msg.Header.Get(protocol.TagBeginString); ok && dd.version != "" && begin != dd.version {
		return newValidationError(ErrUnsupportedVersion, protocol.TagBeginString, msgType)
	}

	body := dd.messages[msgType]
	sections := [...]sectionRules{
		{
			fields:   msg.Header,
			ctx:      headerContext,
			member:   dd.IsHeaderField,
			order:    dd.headerOrder,
			required: dd.IsRequiredHeaderField,
		},
		{
			fields:   msg.Body,
			ctx:      msgType,
			member:   func(tag int) bool { _, ok := body.fields[tag]; return ok },
			order:    body.order,
			required: func(tag int) bool { _, ok := body.required[tag]; return ok },
		},
		{
			fields:   msg.Trailer,
			ctx:      trailerContext,
			member:   dd.IsTrailerField,
			order:    dd.trailerOrder,
			required: dd.IsRequiredTrailerField,
		},
	}

	for _, s := range sections {
		if err := dd.checkFields(s.fields, s.ctx, msgType, s.member, phaseTags); err != nil {
			return err
		}
	}
	for _, s := range sections {
		if err := dd.checkFields(s.fields, s.ctx, msgType, s.member, phaseValues); err != nil {
			return err
		}
	}
	for _, s := range sections {
		if err := dd.checkRequired(s.fields, s.ctx, msgType, s.order, s.required); err != nil {
			return err
		}
	}
	for _, s := range sections {
		if err := dd.checkGroupCounts(s.fields, s.ctx, msgType); err != nil {
			return err
		}
	}
	return nil
}

// fieldPhase selects which per field checks checkFields runs.
type fieldPhase uint8

const (
	phaseTags fieldPhase = iota
	phaseValues
)

// checkFields runs phase on every field of fm, descending into the
// repetitions of the groups ctx declares.
func (dd *DataDictionary) checkFields(fm *FieldMap, ctx, msgType string, member func(int) bool, phase fieldPhase) error {
	for _, f := range fm.Fields() {
		var err error
		switch phase {
		case phaseTags:
			err = dd.checkTag(f, msgType, member)
		case phaseValues:
			err = dd.checkValue(f, msgType)
		}
		if err != nil {
			return err
		}

		info, ok := dd.Group(ctx, f.Tag)
		if !ok {
			continue
		}
		gdd := info.Dictionary
		inGroup := func(t int) bool { return gdd.IsMsgField(ctx, t) }
		for _, g := range fm.groups[f.Tag] {
			if err := gdd.checkFields(g.FieldMap, ctx, msgType, inGroup, phase); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkTag rejects tags the dictionary does not know or the message does not
// define, subject to the unknown and user defined tag policy.
func (dd *DataDictionary) checkTag(f Field, msgType string, member func(int) bool) error {
	if !dd.IsField(f.Tag) {
		if dd.shouldCheckTag(f.Tag) {
			return newValidationError(ErrInvalidTagNumber, f.Tag, msgType)
		}
		return nil
	}
	if !member(f.Tag) && dd.shouldCheckTag(f.Tag) {
		return newValidationError(ErrTagNotDefinedForMessage, f.Tag, msgType)
	}
	return nil
}

// checkValue rejects empty, malformed and disallowed values of known tags.
func (dd *DataDictionary) checkValue(f Field, msgType string) error {
	info, ok := dd.fields.byTag.Get(f.Tag)
	if !ok {
		return nil
	}
	if f.Value == "" {
		if dd.flags.checkFieldsHaveValues.Load() {
			return newValidationError(ErrNoTagValue, f.Tag, msgType)
		}
		return nil
	}
	if dd.flags.validateFieldFormats.Load() && !validFormat(info.typ, f.Value) {
		return newValidationError(ErrIncorrectDataFormat, f.Tag, msgType)
	}
	if !info.allows(f.Value) {
		return newValidationError(ErrIncorrectTagValue, f.Tag, msgType)
	}
	return nil
}

// shouldCheckTag applies the unknown and user defined tag policy.
func (dd *DataDictionary) shouldCheckTag(tag int) bool {
	if tag >= protocol.UserDefinedTagMin {
		return dd.flags.checkUserDefinedFields.Load()
	}
	return !dd.flags.allowUnknownMessageFields.Load()
}

func (dd *DataDictionary) checkRequired(fm *FieldMap, ctx, msgType string, order []int, required func(int) bool) error {
	for _, tag := range order {
		if required(tag) && !fm.Has(tag) {
			return newValidationError(ErrRequiredTagMissing, tag, msgType)
		}
	}

	for _, tag := range fm.Tags() {
		info, ok := dd.Group(ctx, tag)
		if !ok {
			continue
		}
		gdd := info.Dictionary
		rules, ok := gdd.messages[ctx]
		if !ok {
			continue
		}
		inGroup := func(t int) bool { _, ok := rules.required[t]; return ok }
		for _, g := range fm.groups[tag] {
			if err := gdd.checkRequired(g.FieldMap, ctx, msgType, rules.order, inGroup); err != nil {
				return err
			}
		}
	}
	return nil
}

func (dd *DataDictionary) checkGroupCounts(fm *FieldMap, ctx, msgType string) error {
	for _, f := range fm.Fields() {
		info, ok := dd.Group(ctx, f.Tag)
		if !ok {
			continue
		}

		count, err := strconv.Atoi(f.Value)
		if err != nil || count < 0 {
			return newValidationError(ErrIncorrectDataFormat, f.Tag, msgType)
		}
		groups := fm.groups[f.Tag]
		if count != len(groups) {
			return newValidationError(ErrRepeatingGroupCountMismatch, f.Tag, msgType)
		}

		for _, g := range groups {
			if err := info.Dictionary.checkGroupCounts(g.FieldMap, ctx, msgType); err != nil {
				return err
			}
		}
	}
	return nil
}

// validFormat reports whether value is well formed for typ. Types without a
// fixed textual form accept any value.
func validFormat(typ protocol.FieldType, value string) bool {
	switch {
	case typ.IsInteger():
		n, err := strconv.Atoi(value)
		if err != nil {
			return false
		}
		switch typ {
		case protocol.FieldTypeInt:
			return true
		case protocol.FieldTypeDayOfMonth:
			return n >= 1 && n <= 31
		}
		return n >= 0
	case typ.IsNumeric():
		return validDecimal(value)
	}

	switch typ {
	case protocol.FieldTypeBoolean:
		return value == "Y" || value == "N"
	case protocol.FieldTypeChar:
		return len(value) == 1
	case protocol.FieldTypeUTCTimestamp:
		_, ok := parseUTCTimestamp(value)
		return ok
	case protocol.FieldTypeUTCDateOnly, protocol.FieldTypeUTCDate, protocol.FieldTypeLocalMarketDate:
		_, err := time.Parse("20060102", value)
		return err == nil
	case protocol.FieldTypeUTCTimeOnly:
		return parseTimeOnly(value)
	case protocol.FieldTypeMonthYear:
		if len(value) < 6 {
			return false
		}
		_, err := time.Parse("200601", value[:6])
		return err == nil
	}
	return true
}

// validDecimal parses value with udecimal and falls back to shopspring for
// values beyond udecimal's 19 fractional digits.
func validDecimal(value string) bool {
	_, err := udecimal.Parse(value)
	if err == nil {
		return true
	}
	if !errors.Is(err, udecimal.ErrPrecOutOfRange) {
		return false
	}
	_, err = decimal.NewFromString(value)
	return err == nil
}

func parseTimeOnly(value string) bool {
	layouts := [...]string{"15:04:05", "15:04:05.000", "15:04:05.000000", "15:04:05.000000000"}
	for _, layout := range layouts {
		if len(layout) != len(value) {
			continue
		}
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}
