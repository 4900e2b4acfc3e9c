package fix

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/0x5487/fixcore/protocol"
	"github.com/0x5487/fixcore/schema"
	"github.com/igrmk/treemap/v2"
)

// DataDictionary is the compiled form of a FIX specification. It answers
// schema lookups and validates messages against the specification.
//
// A DataDictionary is immutable once built, apart from its validation toggles,
// and is safe for concurrent use.
type DataDictionary struct {
	version string
	flags   *validationFlags
	fields  *fieldTable
	// group marks the dictionary of a repeating group's inner shape.
	group bool

	messages     map[string]*messageInfo
	header       map[int]bool
	trailer      map[int]bool
	headerOrder  []int
	trailerOrder []int
	// groups is keyed by count tag, then by message type (or the header and
	// trailer contexts).
	groups map[int]map[string]*GroupInfo
}

// GroupInfo describes a repeating group in one message context.
type GroupInfo struct {
	// Delim is the first field of every repetition.
	Delim int
	// Dictionary holds the members of a repetition, including nested groups.
	Dictionary *DataDictionary
}

type validationFlags struct {
	checkFieldsOutOfOrder      atomic.Bool
	checkFieldsHaveValues      atomic.Bool
	checkUserDefinedFields     atomic.Bool
	allowUnknownMessageFields  atomic.Bool
	validateFieldFormats       atomic.Bool
	preserveMessageFieldsOrder atomic.Bool
}

type fieldInfo struct {
	name string
	typ  protocol.FieldType
	// values maps each allowed value to its description. Nil means any value.
	values map[string]string
}

func (f *fieldInfo) allows(value string) bool {
	if len(f.values) == 0 {
		return true
	}
	if !f.typ.IsMultipleValue() {
		_, ok := f.values[value]
		return ok
	}
	for _, v := range strings.Split(value, " ") {
		if _, ok := f.values[v]; !ok {
			return false
		}
	}
	return true
}

type fieldTable struct {
	byTag  *treemap.TreeMap[int, *fieldInfo]
	byName map[string]int
}

func newFieldTable() *fieldTable {
	return &fieldTable{
		byTag:  treemap.New[int, *fieldInfo](),
		byName: make(map[string]int),
	}
}

func (t *fieldTable) add(def schema.FieldDef) error {
	if def.Number <= 0 {
		return fmt.Errorf("%w: field %q has invalid number %d", ErrConfig, def.Name, def.Number)
	}
	if def.Name == "" {
		return fmt.Errorf("%w: field %d has no name", ErrConfig, def.Number)
	}
	if t.byTag.Contains(def.Number) {
		return fmt.Errorf("%w: field number %d defined multiple times", ErrConfig, def.Number)
	}
	if _, ok := t.byName[def.Name]; ok {
		return fmt.Errorf("%w: field name %q defined multiple times", ErrConfig, def.Name)
	}

	info := &fieldInfo{name: def.Name, typ: def.Type}
	if len(def.Values) > 0 {
		info.values = make(map[string]string, len(def.Values))
		for _, v := range def.Values {
			info.values[v.Enum] = v.Description
		}
	}
	t.byTag.Set(def.Number, info)
	t.byName[def.Name] = def.Number
	return nil
}

func (t *fieldTable) lookup(name string) (int, error) {
	tag, ok := t.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: field %q not defined in fields section", ErrConfig, name)
	}
	return tag, nil
}

type messageInfo struct {
	name     string
	category protocol.MessageCategory
	fields   map[int]struct{}
	required map[int]struct{}
	order    []int
}

func newMessageInfo(name string, category protocol.MessageCategory) *messageInfo {
	return &messageInfo{
		name:     name,
		category: category,
		fields:   make(map[int]struct{}),
		required: make(map[int]struct{}),
	}
}

func (m *messageInfo) add(tag int, required bool) {
	if _, ok := m.fields[tag]; !ok {
		m.fields[tag] = struct{}{}
		m.order = append(m.order, tag)
	}
	if required {
		m.required[tag] = struct{}{}
	}
}

// NewDataDictionary compiles tree with DefaultValidationOptions.
func NewDataDictionary(tree *schema.Tree) (*DataDictionary, error) {
	return NewDataDictionaryWithOptions(tree, DefaultValidationOptions())
}

// NewDataDictionaryWithOptions compiles tree. Components are expanded in
// place; a field reachable through several paths is required when any path
// requires it. Undefined fields or components and duplicate definitions are
// reported as ErrConfig.
func NewDataDictionaryWithOptions(tree *schema.Tree, opts ValidationOptions) (*DataDictionary, error) {
	if tree == nil {
		return nil, fmt.Errorf("%w: nil specification", ErrConfig)
	}

	dd := newDataDictionary(tree.Version(), &validationFlags{}, newFieldTable(), false)
	dd.SetOptions(opts)

	for _, def := range tree.Fields {
		if err := dd.fields.add(def); err != nil {
			return nil, err
		}
	}

	b := &builder{
		components: make(map[string]*schema.ComponentDef, len(tree.Components)),
		active:     make(map[string]bool),
	}
	for i := range tree.Components {
		c := &tree.Components[i]
		if _, ok := b.components[c.Name]; ok {
			return nil, fmt.Errorf("%w: component %q defined multiple times", ErrConfig, c.Name)
		}
		b.components[c.Name] = c
	}

	if err := b.addElements(dd, headerContext, tree.Header, true); err != nil {
		return nil, err
	}
	if err := b.addElements(dd, trailerContext, tree.Trailer, true); err != nil {
		return nil, err
	}

	for i := range tree.Messages {
		def := &tree.Messages[i]
		if def.MsgType == "" {
			return nil, fmt.Errorf("%w: message %q has no MsgType", ErrConfig, def.Name)
		}
		if _, ok := dd.messages[def.MsgType]; ok {
			return nil, fmt.Errorf("%w: MsgType %q defined multiple times", ErrConfig, def.MsgType)
		}
		dd.messages[def.MsgType] = newMessageInfo(def.Name, def.Category)
		if err := b.addElements(dd, def.MsgType, def.Elements, true); err != nil {
			return nil, fmt.Errorf("message %q: %w", def.Name, err)
		}
	}

	logger.Debug("data dictionary built",
		slog.String("version", dd.version),
		slog.Int("fields", dd.fields.byTag.Len()),
		slog.Int("messages", len(dd.messages)),
		slog.Int("groups", b.groups),
	)
	return dd, nil
}

func newDataDictionary(version string, flags *validationFlags, fields *fieldTable, group bool) *DataDictionary {
	return &DataDictionary{
		version:  version,
		flags:    flags,
		fields:   fields,
		group:    group,
		messages: make(map[string]*messageInfo),
		header:   make(map[int]bool),
		trailer:  make(map[int]bool),
		groups:   make(map[int]map[string]*GroupInfo),
	}
}

// builder walks the specification tree. active holds the components being
// expanded so a component that includes itself is reported instead of
// recursing forever.
type builder struct {
	components map[string]*schema.ComponentDef
	active     map[string]bool
	groups     int
}

func (b *builder) component(name string) (*schema.ComponentDef, error) {
	c, ok := b.components[name]
	if !ok {
		return nil, fmt.Errorf("%w: component %q not defined", ErrConfig, name)
	}
	if b.active[name] {
		return nil, fmt.Errorf("%w: component %q includes itself", ErrConfig, name)
	}
	return c, nil
}

// addElements registers elems under ctx. required is false as soon as any
// enclosing component is optional.
func (b *builder) addElements(dd *DataDictionary, ctx string, elems []schema.Element, required bool) error {
	for _, e := range elems {
		switch e.Kind {
		case schema.KindField:
			tag, err := dd.fields.lookup(e.Name)
			if err != nil {
				return err
			}
			dd.addMember(ctx, tag, required && e.Required)

		case schema.KindComponent:
			c, err := b.component(e.Name)
			if err != nil {
				return err
			}
			b.active[e.Name] = true
			err = b.addElements(dd, ctx, c.Elements, required && e.Required)
			delete(b.active, e.Name)
			if err != nil {
				return err
			}

		case schema.KindGroup:
			tag, err := dd.fields.lookup(e.Name)
			if err != nil {
				return err
			}
			delim, err := b.firstField(dd.fields, e.Elements)
			if err != nil {
				return err
			}
			if delim == 0 {
				return fmt.Errorf("%w: group %q has no fields", ErrConfig, e.Name)
			}

			gdd := newDataDictionary(dd.version, dd.flags, dd.fields, true)
			if err := b.addElements(gdd, ctx, e.Elements, true); err != nil {
				return fmt.Errorf("group %q: %w", e.Name, err)
			}
			dd.addGroup(ctx, tag, delim, gdd)
			dd.addMember(ctx, tag, required && e.Required)
			b.groups++

		default:
			return fmt.Errorf("%w: element %q has unknown kind %d", ErrConfig, e.Name, e.Kind)
		}
	}
	return nil
}

// firstField returns the tag that opens a repetition: the first field found
// walking elems depth first through components.
func (b *builder) firstField(fields *fieldTable, elems []schema.Element) (int, error) {
	for _, e := range elems {
		switch e.Kind {
		case schema.KindField, schema.KindGroup:
			return fields.lookup(e.Name)
		case schema.KindComponent:
			c, err := b.component(e.Name)
			if err != nil {
				return 0, err
			}
			b.active[e.Name] = true
			tag, err := b.firstField(fields, c.Elements)
			delete(b.active, e.Name)
			if err != nil || tag != 0 {
				return tag, err
			}
		}
	}
	return 0, nil
}

func (dd *DataDictionary) addMember(ctx string, tag int, required bool) {
	switch {
	case !dd.group && ctx == headerContext:
		if _, ok := dd.header[tag]; !ok {
			dd.headerOrder = append(dd.headerOrder, tag)
		}
		dd.header[tag] = dd.header[tag] || required
	case !dd.group && ctx == trailerContext:
		if _, ok := dd.trailer[tag]; !ok {
			dd.trailerOrder = append(dd.trailerOrder, tag)
		}
		dd.trailer[tag] = dd.trailer[tag] || required
	default:
		info, ok := dd.messages[ctx]
		if !ok {
			info = newMessageInfo("", "")
			dd.messages[ctx] = info
		}
		info.add(tag, required)
	}
}

func (dd *DataDictionary) addGroup(ctx string, tag, delim int, gdd *DataDictionary) {
	byContext, ok := dd.groups[tag]
	if !ok {
		byContext = make(map[string]*GroupInfo)
		dd.groups[tag] = byContext
	}
	byContext[ctx] = &GroupInfo{Delim: delim, Dictionary: gdd}
}

// Version returns the BeginString of the specification, e.g. "FIX.4.4".
func (dd *DataDictionary) Version() string {
	return dd.version
}

// IsField reports whether tag is defined in the fields section.
func (dd *DataDictionary) IsField(tag int) bool {
	return dd.fields.byTag.Contains(tag)
}

// FieldName returns the name of tag.
func (dd *DataDictionary) FieldName(tag int) (string, bool) {
	info, ok := dd.fields.byTag.Get(tag)
	if !ok {
		return "", false
	}
	return info.name, true
}

// FieldTag returns the tag of the field called name.
func (dd *DataDictionary) FieldTag(name string) (int, bool) {
	tag, ok := dd.fields.byName[name]
	return tag, ok
}

// FieldType returns the declared type of tag.
func (dd *DataDictionary) FieldType(tag int) (protocol.FieldType, bool) {
	info, ok := dd.fields.byTag.Get(tag)
	if !ok {
		return "", false
	}
	return info.typ, true
}

// FieldTags returns every defined tag in ascending order.
func (dd *DataDictionary) FieldTags() []int {
	tags := make([]int, 0, dd.fields.byTag.Len())
	for it := dd.fields.byTag.Iterator(); it.Valid(); it.Next() {
		tags = append(tags, it.Key())
	}
	return tags
}

// IsMsgType reports whether msgType is defined.
func (dd *DataDictionary) IsMsgType(msgType string) bool {
	_, ok := dd.messages[msgType]
	return ok
}

// MsgTypeName returns the message name of msgType, e.g. "NewOrderSingle".
func (dd *DataDictionary) MsgTypeName(msgType string) (string, bool) {
	info, ok := dd.messages[msgType]
	if !ok {
		return "", false
	}
	return info.name, true
}

// MsgCategory returns whether msgType is an admin or an app message.
func (dd *DataDictionary) MsgCategory(msgType string) (protocol.MessageCategory, bool) {
	info, ok := dd.messages[msgType]
	if !ok {
		return "", false
	}
	return info.category, true
}

// IsMsgField reports whether tag may appear in the body of msgType.
// Fields that only appear inside repeating groups are not listed.
func (dd *DataDictionary) IsMsgField(msgType string, tag int) bool {
	info, ok := dd.messages[msgType]
	if !ok {
		return false
	}
	_, ok = info.fields[tag]
	return ok
}

// IsHeaderField reports whether tag belongs to the standard header.
func (dd *DataDictionary) IsHeaderField(tag int) bool {
	_, ok := dd.header[tag]
	return ok
}

// IsTrailerField reports whether tag belongs to the standard trailer.
func (dd *DataDictionary) IsTrailerField(tag int) bool {
	_, ok := dd.trailer[tag]
	return ok
}

// IsRequiredField reports whether tag is required in the body of msgType.
func (dd *DataDictionary) IsRequiredField(msgType string, tag int) bool {
	info, ok := dd.messages[msgType]
	if !ok {
		return false
	}
	_, ok = info.required[tag]
	return ok
}

// IsRequiredHeaderField reports whether tag is a required header field.
func (dd *DataDictionary) IsRequiredHeaderField(tag int) bool {
	return dd.header[tag]
}

// IsRequiredTrailerField reports whether tag is a required trailer field.
func (dd *DataDictionary) IsRequiredTrailerField(tag int) bool {
	return dd.trailer[tag]
}

// IsFieldValue reports whether value is allowed for tag. Fields without
// enumerated values accept anything; multiple value fields must list only
// allowed values, separated by spaces.
func (dd *DataDictionary) IsFieldValue(tag int, value string) bool {
	info, ok := dd.fields.byTag.Get(tag)
	if !ok {
		return true
	}
	return info.allows(value)
}

// HasFieldValues reports whether tag restricts its values to an enumeration.
func (dd *DataDictionary) HasFieldValues(tag int) bool {
	info, ok := dd.fields.byTag.Get(tag)
	return ok && len(info.values) > 0
}

// IsMultipleValueField reports whether tag holds space separated values.
func (dd *DataDictionary) IsMultipleValueField(tag int) bool {
	info, ok := dd.fields.byTag.Get(tag)
	return ok && info.typ.IsMultipleValue()
}

// IsDataField reports whether tag carries raw data preceded by a length field.
func (dd *DataDictionary) IsDataField(tag int) bool {
	info, ok := dd.fields.byTag.Get(tag)
	return ok && info.typ.IsData()
}

// ValueName returns the description of an enumerated value. For MsgType the
// message name is returned.
func (dd *DataDictionary) ValueName(tag int, value string) (string, bool) {
	if info, ok := dd.fields.byTag.Get(tag); ok {
		if name, ok := info.values[value]; ok {
			return name, true
		}
	}
	if tag == protocol.TagMsgType {
		if info, ok := dd.messages[value]; ok && info.name != "" {
			return info.name, true
		}
	}
	return "", false
}

// NameValue is the inverse of ValueName.
func (dd *DataDictionary) NameValue(tag int, name string) (string, bool) {
	if info, ok := dd.fields.byTag.Get(tag); ok {
		for value, desc := range info.values {
			if desc == name {
				return value, true
			}
		}
	}
	if tag == protocol.TagMsgType {
		for msgType, info := range dd.messages {
			if info.name == name {
				return msgType, true
			}
		}
	}
	return "", false
}

// IsGroup reports whether tag counts a repeating group in msgType. Use the
// header and trailer groups with HeaderGroup and TrailerGroup.
func (dd *DataDictionary) IsGroup(msgType string, tag int) bool {
	_, ok := dd.Group(msgType, tag)
	return ok
}

// Group returns the repeating group counted by tag in msgType.
func (dd *DataDictionary) Group(msgType string, tag int) (*GroupInfo, bool) {
	info, ok := dd.groups[tag][msgType]
	return info, ok
}

// HeaderGroup returns a repeating group of the standard header.
func (dd *DataDictionary) HeaderGroup(tag int) (*GroupInfo, bool) {
	return dd.Group(headerContext, tag)
}

// TrailerGroup returns a repeating group of the standard trailer.
func (dd *DataDictionary) TrailerGroup(tag int) (*GroupInfo, bool) {
	return dd.Group(trailerContext, tag)
}

// GroupOrder returns the declared member order of the group counted by tag in
// msgType.
func (dd *DataDictionary) GroupOrder(msgType string, tag int) ([]int, bool) {
	info, ok := dd.Group(msgType, tag)
	if !ok {
		return nil, false
	}
	return info.Dictionary.fieldOrder(msgType), true
}

// MessageFieldOrder returns the declared body field order of msgType.
func (dd *DataDictionary) MessageFieldOrder(msgType string) []int {
	return dd.fieldOrder(msgType)
}

// HeaderFieldOrder returns the declared header field order.
func (dd *DataDictionary) HeaderFieldOrder() []int {
	return slices.Clone(dd.headerOrder)
}

// TrailerFieldOrder returns the declared trailer field order.
func (dd *DataDictionary) TrailerFieldOrder() []int {
	return slices.Clone(dd.trailerOrder)
}

func (dd *DataDictionary) fieldOrder(ctx string) []int {
	info, ok := dd.messages[ctx]
	if !ok {
		return nil
	}
	return slices.Clone(info.order)
}

// NewGroup returns an empty repetition of the group counted by tag in msgType,
// ordered as declared.
func (dd *DataDictionary) NewGroup(msgType string, tag int) (*Group, error) {
	info, ok := dd.Group(msgType, tag)
	if !ok {
		return nil, fmt.Errorf("%w: tag %d is not a group of MsgType %q", ErrFieldNotFound, tag, msgType)
	}
	return info.newGroup(msgType, tag), nil
}

func (g *GroupInfo) newGroup(ctx string, tag int) *Group {
	order := g.Dictionary.fieldOrder(ctx)
	if len(order) == 0 {
		return NewGroup(tag, g.Delim)
	}
	return NewGroupWithOrder(tag, g.Delim, order)
}

// Options returns the current validation toggles.
func (dd *DataDictionary) Options() ValidationOptions {
	return ValidationOptions{
		CheckFieldsOutOfOrder:      dd.flags.checkFieldsOutOfOrder.Load(),
		CheckFieldsHaveValues:      dd.flags.checkFieldsHaveValues.Load(),
		CheckUserDefinedFields:     dd.flags.checkUserDefinedFields.Load(),
		AllowUnknownMessageFields:  dd.flags.allowUnknownMessageFields.Load(),
		ValidateFieldFormats:       dd.flags.validateFieldFormats.Load(),
		PreserveMessageFieldsOrder: dd.flags.preserveMessageFieldsOrder.Load(),
	}
}

// SetOptions replaces every validation toggle. Group dictionaries share the
// toggles of the dictionary they were built from.
func (dd *DataDictionary) SetOptions(opts ValidationOptions) {
	dd.flags.checkFieldsOutOfOrder.Store(opts.CheckFieldsOutOfOrder)
	dd.flags.checkFieldsHaveValues.Store(opts.CheckFieldsHaveValues)
	dd.flags.checkUserDefinedFields.Store(opts.CheckUserDefinedFields)
	dd.flags.allowUnknownMessageFields.Store(opts.AllowUnknownMessageFields)
	dd.flags.validateFieldFormats.Store(opts.ValidateFieldFormats)
	dd.flags.preserveMessageFieldsOrder.Store(opts.PreserveMessageFieldsOrder)
}

// SetCheckFieldsOutOfOrder toggles the section order check of parsing.
func (dd *DataDictionary) SetCheckFieldsOutOfOrder(v bool) {
	dd.flags.checkFieldsOutOfOrder.Store(v)
}

// SetCheckFieldsHaveValues toggles rejection of fields with an empty value.
func (dd *DataDictionary) SetCheckFieldsHaveValues(v bool) {
	dd.flags.checkFieldsHaveValues.Store(v)
}

// SetCheckUserDefinedFields toggles validation of tags >= 5000.
func (dd *DataDictionary) SetCheckUserDefinedFields(v bool) {
	dd.flags.checkUserDefinedFields.Store(v)
}

// SetAllowUnknownMessageFields toggles acceptance of unknown or undefined tags below 5000.
func (dd *DataDictionary) SetAllowUnknownMessageFields(v bool) {
	dd.flags.allowUnknownMessageFields.Store(v)
}

// SetValidateFieldFormats toggles the FieldType format check of values.
func (dd *DataDictionary) SetValidateFieldFormats(v bool) {
	dd.flags.validateFieldFormats.Store(v)
}

// SetPreserveMessageFieldsOrder toggles keeping the declared body field order when parsing.
func (dd *DataDictionary) SetPreserveMessageFieldsOrder(v bool) {
	dd.flags.preserveMessageFieldsOrder.Store(v)
}
