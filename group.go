package fix

// Group is one repetition of a repeating group. It is a FieldMap tagged with
// the group count field (Tag) and the field that opens every repetition
// (Delim). Nested groups hang off the embedded FieldMap like anywhere else.
type Group struct {
	*FieldMap
	tag   int
	delim int
}

// NewGroup creates a repetition whose fields serialize in numeric order.
func NewGroup(tag, delim int) *Group {
	return newGroup(tag, delim, NormalOrder())
}

// NewGroupWithOrder creates a repetition whose fields serialize in the given
// declared order. It panics when order is empty.
func NewGroupWithOrder(tag, delim int, order []int) *Group {
	if len(order) == 0 {
		panic("fix: group order must not be empty")
	}
	return newGroup(tag, delim, GroupOrder(order))
}

func newGroup(tag, delim int, order MessageOrder) *Group {
	if tag <= 0 || delim <= 0 {
		panic("fix: group tag and delimiter must be positive")
	}
	return &Group{
		FieldMap: NewFieldMap(order),
		tag:      tag,
		delim:    delim,
	}
}

// Tag returns the group count field, e.g. NoPartyIDs.
func (g *Group) Tag() int {
	return g.tag
}

// Delim returns the first field of every repetition.
func (g *Group) Delim() int {
	return g.delim
}

// Clone returns a deep copy of the repetition.
func (g *Group) Clone() *Group {
	return &Group{
		FieldMap: g.FieldMap.Clone(),
		tag:      g.tag,
		delim:    g.delim,
	}
}

// Empty returns a new repetition with the same tag, delimiter and order and no fields.
func (g *Group) Empty() *Group {
	return newGroup(g.tag, g.delim, g.FieldMap.Order())
}
