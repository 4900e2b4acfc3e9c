package fix

import (
	"github.com/0x5487/fixcore/protocol"
)

// OrderMode selects the comparison rule of a MessageOrder.
type OrderMode uint8

const (
	// OrderNormal sorts tags numerically.
	OrderNormal OrderMode = iota
	// OrderHeader puts BeginString, BodyLength and MsgType first.
	OrderHeader
	// OrderTrailer puts SignatureLength and Signature first and CheckSum last.
	OrderTrailer
	// OrderGroup follows the declared field order of a repeating group.
	OrderGroup
)

// MessageOrder is a total order over tag numbers. The zero value is OrderNormal.
//
// For OrderGroup, tags up to the largest declared tag are ranked by their
// position in the declared order; tags missing from the declaration rank after
// the declared ones, and everything above the largest declared tag ranks last.
// Ties always fall back to numeric order so serialization is deterministic.
type MessageOrder struct {
	mode      OrderMode
	largest   int
	positions map[int]int
}

// NormalOrder returns the numeric ordering used by message bodies.
func NormalOrder() MessageOrder {
	return MessageOrder{mode: OrderNormal}
}

// HeaderOrder returns the ordering used by the standard header.
func HeaderOrder() MessageOrder {
	return MessageOrder{mode: OrderHeader}
}

// TrailerOrder returns the ordering used by the standard trailer.
func TrailerOrder() MessageOrder {
	return MessageOrder{mode: OrderTrailer}
}

// GroupOrder returns an ordering that follows the given tag sequence.
func GroupOrder(order []int) MessageOrder {
	positions := make(map[int]int, len(order))
	largest := 0
	for i, tag := range order {
		if _, ok := positions[tag]; !ok {
			positions[tag] = i + 1
		}
		if tag > largest {
			largest = tag
		}
	}
	return MessageOrder{mode: OrderGroup, largest: largest, positions: positions}
}

// Mode returns the comparison rule in use.
func (o MessageOrder) Mode() OrderMode {
	return o.mode
}

// Largest returns the highest tag of a group order, 0 for the other modes.
func (o MessageOrder) Largest() int {
	return o.largest
}

// Compare returns -1, 0 or +1 depending on whether x sorts before, equal to or after y.
func (o MessageOrder) Compare(x, y int) int {
	if x == y {
		return 0
	}

	var c int
	switch o.mode {
	case OrderHeader:
		c = comparePositions(headerPosition(x), headerPosition(y))
	case OrderTrailer:
		if x == protocol.TagCheckSum {
			return 1
		}
		if y == protocol.TagCheckSum {
			return -1
		}
		c = comparePositions(trailerPosition(x), trailerPosition(y))
	case OrderGroup:
		c = o.compareGroup(x, y)
	}

	if c != 0 {
		return c
	}
	return compareInt(x, y)
}

// Less reports whether x sorts before y.
func (o MessageOrder) Less(x, y int) bool {
	return o.Compare(x, y) < 0
}

func (o MessageOrder) compareGroup(x, y int) int {
	switch {
	case x <= o.largest && y <= o.largest:
		return comparePositions(o.positions[x], o.positions[y])
	case x <= o.largest:
		return -1
	case y <= o.largest:
		return 1
	}
	return 0
}

// comparePositions ranks fixed positions (> 0) before unpositioned tags (0).
// Two unpositioned tags compare equal, leaving the decision to the caller.
func comparePositions(px, py int) int {
	switch {
	case px > 0 && py > 0:
		return compareInt(px, py)
	case px > 0:
		return -1
	case py > 0:
		return 1
	}
	return 0
}

func headerPosition(tag int) int {
	switch tag {
	case protocol.TagBeginString:
		return 1
	case protocol.TagBodyLength:
		return 2
	case protocol.TagMsgType:
		return 3
	}
	return 0
}

func trailerPosition(tag int) int {
	switch tag {
	case protocol.TagSignatureLength:
		return 1
	case protocol.TagSignature:
		return 2
	}
	return 0
}

func compareInt(x, y int) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
