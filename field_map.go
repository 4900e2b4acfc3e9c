package fix

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/0x5487/fixcore/protocol"
	"github.com/huandu/skiplist"
	"github.com/shopspring/decimal"
)

// Field is a single tag=value pair.
type Field struct {
	Tag   int
	Value string
}

// FieldMap is an ordered collection of fields plus the repeating groups
// attached to group count fields. Iteration and serialization always follow
// the map's MessageOrder, never insertion order.
//
// A FieldMap is not safe for concurrent mutation.
type FieldMap struct {
	order  MessageOrder
	fields *skiplist.SkipList
	groups map[int][]*Group
}

// NewFieldMap creates an empty FieldMap sorted by order.
func NewFieldMap(order MessageOrder) *FieldMap {
	return &FieldMap{
		order: order,
		fields: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			x, _ := lhs.(int)
			y, _ := rhs.(int)
			return order.Compare(x, y)
		})),
	}
}

// Order returns the ordering policy of the map.
func (m *FieldMap) Order() MessageOrder {
	return m.order
}

// Set stores value under tag, replacing any previous value.
func (m *FieldMap) Set(tag int, value string) {
	m.fields.Set(tag, value)
}

// Get returns the value stored under tag.
func (m *FieldMap) Get(tag int) (string, bool) {
	el := m.fields.Get(tag)
	if el == nil {
		return "", false
	}
	value, _ := el.Value.(string)
	return value, true
}

// Has reports whether tag is set.
func (m *FieldMap) Has(tag int) bool {
	return m.fields.Get(tag) != nil
}

// Remove deletes tag and returns its previous value. Removing a group count
// field also drops the repetitions attached to it.
func (m *FieldMap) Remove(tag int) (string, bool) {
	delete(m.groups, tag)
	el := m.fields.Remove(tag)
	if el == nil {
		return "", false
	}
	value, _ := el.Value.(string)
	return value, true
}

// Len returns the number of fields, group count fields included.
func (m *FieldMap) Len() int {
	return m.fields.Len()
}

// Tags returns the tags in serialization order.
func (m *FieldMap) Tags() []int {
	tags := make([]int, 0, m.fields.Len())
	for el := m.fields.Front(); el != nil; el = el.Next() {
		tags = append(tags, el.Key().(int))
	}
	return tags
}

// Fields returns the fields in serialization order, without group content.
func (m *FieldMap) Fields() []Field {
	fields := make([]Field, 0, m.fields.Len())
	for el := m.fields.Front(); el != nil; el = el.Next() {
		value, _ := el.Value.(string)
		fields = append(fields, Field{Tag: el.Key().(int), Value: value})
	}
	return fields
}

// Clear removes every field and group.
func (m *FieldMap) Clear() {
	m.fields.Init()
	m.groups = nil
}

// Clone returns a deep copy, groups included.
func (m *FieldMap) Clone() *FieldMap {
	cpy := NewFieldMap(m.order)
	cpy.copyFrom(m, false)
	return cpy
}

// CopyFrom sets every field of other on m and appends copies of its groups.
func (m *FieldMap) CopyFrom(other *FieldMap) {
	m.copyFrom(other, true)
}

// copyFrom copies fields and groups. With setCount false the count fields are
// taken from other as they are, which keeps a mismatched count visible.
func (m *FieldMap) copyFrom(other *FieldMap, setCount bool) {
	for el := other.fields.Front(); el != nil; el = el.Next() {
		m.fields.Set(el.Key(), el.Value)
	}
	for tag, groups := range other.groups {
		for _, g := range groups {
			m.addGroup(tag, g.Clone(), setCount)
		}
	}
}

// GetString returns the value of tag.
func (m *FieldMap) GetString(tag int) (string, error) {
	value, ok := m.Get(tag)
	if !ok {
		return "", fmt.Errorf("%w: tag %d", ErrFieldNotFound, tag)
	}
	return value, nil
}

// SetString is an alias of Set.
func (m *FieldMap) SetString(tag int, value string) {
	m.Set(tag, value)
}

// GetInt returns the value of tag parsed as a base 10 integer.
func (m *FieldMap) GetInt(tag int) (int, error) {
	value, err := m.GetString(tag)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, conversionError(tag, value, "int")
	}
	return i, nil
}

// SetInt stores v in base 10.
func (m *FieldMap) SetInt(tag int, v int) {
	m.Set(tag, strconv.Itoa(v))
}

// GetFloat returns the value of tag parsed as a float64.
func (m *FieldMap) GetFloat(tag int) (float64, error) {
	value, err := m.GetString(tag)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, conversionError(tag, value, "float")
	}
	return f, nil
}

// SetFloat stores v with the fewest digits that represent it exactly.
func (m *FieldMap) SetFloat(tag int, v float64) {
	m.Set(tag, strconv.FormatFloat(v, 'f', -1, 64))
}

// GetDecimal returns the value of tag as an arbitrary precision decimal.
// Prefer it over GetFloat for prices and quantities.
func (m *FieldMap) GetDecimal(tag int) (decimal.Decimal, error) {
	value, err := m.GetString(tag)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, conversionError(tag, value, "decimal")
	}
	return d, nil
}

// SetDecimal stores d without exponent notation.
func (m *FieldMap) SetDecimal(tag int, d decimal.Decimal) {
	m.Set(tag, d.String())
}

// GetBool returns true for "Y" and false for "N". Any other text is an error.
func (m *FieldMap) GetBool(tag int) (bool, error) {
	value, err := m.GetString(tag)
	if err != nil {
		return false, err
	}
	switch value {
	case "Y":
		return true, nil
	case "N":
		return false, nil
	}
	return false, conversionError(tag, value, "bool")
}

// SetBool stores "Y" or "N".
func (m *FieldMap) SetBool(tag int, v bool) {
	if v {
		m.Set(tag, "Y")
		return
	}
	m.Set(tag, "N")
}

// GetChar returns the value of tag, which must be exactly one byte long.
func (m *FieldMap) GetChar(tag int) (byte, error) {
	value, err := m.GetString(tag)
	if err != nil {
		return 0, err
	}
	if len(value) != 1 {
		return 0, conversionError(tag, value, "char")
	}
	return value[0], nil
}

// SetChar stores a single byte.
func (m *FieldMap) SetChar(tag int, c byte) {
	m.Set(tag, string([]byte{c}))
}

// GetTime returns the value of tag parsed as a UTCTimestamp, with or without
// milliseconds.
func (m *FieldMap) GetTime(tag int) (time.Time, error) {
	value, err := m.GetString(tag)
	if err != nil {
		return time.Time{}, err
	}
	t, ok := parseUTCTimestamp(value)
	if !ok {
		return time.Time{}, conversionError(tag, value, "UTCTimestamp")
	}
	return t, nil
}

// SetTime stores t as a millisecond precision UTCTimestamp.
func (m *FieldMap) SetTime(tag int, t time.Time) {
	m.Set(tag, t.UTC().Format(UTCTimestampFormat))
}

// GetDayOfWeek returns the value of tag decoded from its two letter code.
func (m *FieldMap) GetDayOfWeek(tag int) (protocol.DayOfWeek, error) {
	value, err := m.GetString(tag)
	if err != nil {
		return 0, err
	}
	d, err := protocol.DayOfWeekFromCode(value)
	if err != nil {
		return 0, conversionError(tag, value, "day of week")
	}
	return d, nil
}

// SetDayOfWeek stores the two letter code of d.
func (m *FieldMap) SetDayOfWeek(tag int, d protocol.DayOfWeek) {
	m.Set(tag, d.String())
}

// AddGroup appends a repetition and updates the group count field.
func (m *FieldMap) AddGroup(g *Group) {
	m.addGroup(g.Tag(), g, true)
}

func (m *FieldMap) addGroup(tag int, g *Group, setCount bool) {
	if m.groups == nil {
		m.groups = make(map[int][]*Group)
	}
	m.groups[tag] = append(m.groups[tag], g)
	if setCount {
		m.SetInt(tag, len(m.groups[tag]))
	}
}

// Group returns the index-th repetition (1-based) of the group counted by tag.
// The returned group is live: changes to it are visible in m.
func (m *FieldMap) Group(tag, index int) (*Group, error) {
	groups := m.groups[tag]
	if index < 1 || index > len(groups) {
		return nil, fmt.Errorf("%w: group %d index %d", ErrFieldNotFound, tag, index)
	}
	return groups[index-1], nil
}

// ReplaceGroup swaps the index-th repetition (1-based) of g's group for g.
func (m *FieldMap) ReplaceGroup(index int, g *Group) error {
	groups := m.groups[g.Tag()]
	if index < 1 || index > len(groups) {
		return fmt.Errorf("%w: group %d index %d", ErrFieldNotFound, g.Tag(), index)
	}
	groups[index-1] = g
	return nil
}

// RemoveGroup deletes the index-th repetition (1-based) of the group counted
// by tag and renumbers the count field. The count field is removed once no
// repetitions are left.
func (m *FieldMap) RemoveGroup(tag, index int) error {
	groups := m.groups[tag]
	if index < 1 || index > len(groups) {
		return fmt.Errorf("%w: group %d index %d", ErrFieldNotFound, tag, index)
	}

	groups = slices.Delete(groups, index-1, index)
	if len(groups) == 0 {
		m.Remove(tag)
		return nil
	}

	m.groups[tag] = groups
	m.SetInt(tag, len(groups))
	return nil
}

// RemoveGroups deletes every repetition of the group counted by tag, and the
// count field with them.
func (m *FieldMap) RemoveGroups(tag int) {
	if _, ok := m.groups[tag]; ok {
		m.Remove(tag)
	}
}

// GroupCount returns the number of repetitions attached to tag.
func (m *FieldMap) GroupCount(tag int) int {
	return len(m.groups[tag])
}

// HasGroup reports whether at least one repetition is attached to tag.
func (m *FieldMap) HasGroup(tag int) bool {
	return len(m.groups[tag]) > 0
}

// Groups returns the repetitions attached to tag, in order.
func (m *FieldMap) Groups(tag int) []*Group {
	groups := m.groups[tag]
	if len(groups) == 0 {
		return nil
	}
	cpy := make([]*Group, len(groups))
	copy(cpy, groups)
	return cpy
}

// Bytes serializes the map as tag=value<SOH> pairs. Each group's repetitions
// follow immediately after the group's count field.
func (m *FieldMap) Bytes() []byte {
	return m.AppendTo(make([]byte, 0, 64))
}

// AppendTo appends the serialized map to b.
func (m *FieldMap) AppendTo(b []byte) []byte {
	return m.appendTo(b, nil)
}

func (m *FieldMap) appendTo(b []byte, skip func(tag int) bool) []byte {
	for el := m.fields.Front(); el != nil; el = el.Next() {
		tag := el.Key().(int)
		if skip != nil && skip(tag) {
			continue
		}
		value, _ := el.Value.(string)
		b = appendField(b, tag, value)

		for _, g := range m.groups[tag] {
			b = g.AppendTo(b)
		}
	}
	return b
}

// Parse replaces the content of m with the fields of data. Groups are not
// reconstructed; use ParseMessageWithDictionary for that.
func (m *FieldMap) Parse(data []byte) error {
	m.Clear()
	for pos := 0; pos < len(data); {
		f, next, err := scanField(data, pos, -1)
		if err != nil {
			return err
		}
		m.Set(f.Tag, f.Value)
		pos = next
	}
	return nil
}

func conversionError(tag int, value, kind string) error {
	return fmt.Errorf("%w: tag %d value %q is not a valid %s", ErrFieldConversion, tag, value, kind)
}

func parseUTCTimestamp(value string) (time.Time, bool) {
	layouts := [...]string{
		UTCTimestampFormat,
		UTCTimestampSecondsFormat,
		"20060102-15:04:05.000000",
		"20060102-15:04:05.000000000",
	}
	for _, layout := range layouts {
		if len(layout) != len(value) {
			continue
		}
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
