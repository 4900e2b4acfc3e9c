package fix

import (
	"github.com/0x5487/fixcore/protocol"
	"github.com/0x5487/fixcore/schema"
)

// newTestTree returns a trimmed FIX 4.4 specification: a standard header with
// a NoHops group, a signed trailer, NewOrderSingle, News, NewOrderMultileg
// with nested groups, and Heartbeat.
func newTestTree() *schema.Tree {
	f := func(number int, name string, typ protocol.FieldType, values ...schema.Value) schema.FieldDef {
		return schema.FieldDef{Number: number, Name: name, Type: typ, Values: values}
	}
	v := func(enum, desc string) schema.Value {
		return schema.Value{Enum: enum, Description: desc}
	}

	return &schema.Tree{
		Major: 4,
		Minor: 4,
		Fields: []schema.FieldDef{
			f(8, "BeginString", protocol.FieldTypeString),
			f(9, "BodyLength", protocol.FieldTypeLength),
			f(10, "CheckSum", protocol.FieldTypeString),
			f(11, "ClOrdID", protocol.FieldTypeString),
			f(18, "ExecInst", protocol.FieldTypeMultipleCharValue, v("1", "NotHeld"), v("2", "Work"), v("G", "AllOrNone")),
			f(33, "LinesOfText", protocol.FieldTypeNumInGroup),
			f(34, "MsgSeqNum", protocol.FieldTypeSequenceNumber),
			f(35, "MsgType", protocol.FieldTypeString),
			f(38, "OrderQty", protocol.FieldTypeQuantity),
			f(40, "OrdType", protocol.FieldTypeChar, v("1", "Market"), v("2", "Limit")),
			f(43, "PossDupFlag", protocol.FieldTypeBoolean),
			f(44, "Price", protocol.FieldTypePrice),
			f(49, "SenderCompID", protocol.FieldTypeString),
			f(52, "SendingTime", protocol.FieldTypeUTCTimestamp),
			f(54, "Side", protocol.FieldTypeChar, v("1", "Buy"), v("2", "Sell")),
			f(55, "Symbol", protocol.FieldTypeString),
			f(56, "TargetCompID", protocol.FieldTypeString),
			f(58, "Text", protocol.FieldTypeString),
			f(60, "TransactTime", protocol.FieldTypeUTCTimestamp),
			f(89, "Signature", protocol.FieldTypeData),
			f(93, "SignatureLength", protocol.FieldTypeLength),
			f(95, "RawDataLength", protocol.FieldTypeLength),
			f(96, "RawData", protocol.FieldTypeData),
			f(112, "TestReqID", protocol.FieldTypeString),
			f(148, "Headline", protocol.FieldTypeString),
			f(447, "PartyIDSource", protocol.FieldTypeChar),
			f(448, "PartyID", protocol.FieldTypeString),
			f(452, "PartyRole", protocol.FieldTypeInt),
			f(453, "NoPartyIDs", protocol.FieldTypeNumInGroup),
			f(524, "NestedPartyID", protocol.FieldTypeString),
			f(525, "NestedPartyIDSource", protocol.FieldTypeChar),
			f(539, "NoNestedPartyIDs", protocol.FieldTypeNumInGroup),
			f(555, "NoLegs", protocol.FieldTypeNumInGroup),
			f(600, "LegSymbol", protocol.FieldTypeString),
			f(627, "NoHops", protocol.FieldTypeNumInGroup),
			f(628, "HopCompID", protocol.FieldTypeString),
			f(629, "HopSendingTime", protocol.FieldTypeUTCTimestamp),
			f(5001, "CustomTag", protocol.FieldTypeString),
		},
		Header: []schema.Element{
			schema.Field("BeginString", true),
			schema.Field("BodyLength", true),
			schema.Field("MsgType", true),
			schema.Field("SenderCompID", true),
			schema.Field("TargetCompID", true),
			schema.Field("MsgSeqNum", true),
			schema.Field("PossDupFlag", false),
			schema.Field("SendingTime", true),
			schema.Group("NoHops", false,
				schema.Field("HopCompID", false),
				schema.Field("HopSendingTime", false),
			),
		},
		Trailer: []schema.Element{
			schema.Field("SignatureLength", false),
			schema.Field("Signature", false),
			schema.Field("CheckSum", true),
		},
		Components: []schema.ComponentDef{
			{
				Name: "Parties",
				Elements: []schema.Element{
					schema.Group("NoPartyIDs", false,
						schema.Field("PartyID", true),
						schema.Field("PartyIDSource", false),
						schema.Field("PartyRole", false),
					),
				},
			},
			{
				Name:     "Instrument",
				Elements: []schema.Element{schema.Field("Symbol", true)},
			},
			{
				Name:     "InstrumentLeg",
				Elements: []schema.Element{schema.Field("LegSymbol", false)},
			},
			{
				Name: "NestedParties",
				Elements: []schema.Element{
					schema.Group("NoNestedPartyIDs", false,
						schema.Field("NestedPartyID", true),
						schema.Field("NestedPartyIDSource", false),
					),
				},
			},
		},
		Messages: []schema.MessageDef{
			{
				Name:     "Heartbeat",
				MsgType:  "0",
				Category: protocol.MessageCategoryAdmin,
				Elements: []schema.Element{schema.Field("TestReqID", false)},
			},
			{
				Name:     "NewOrderSingle",
				MsgType:  "D",
				Category: protocol.MessageCategoryApp,
				Elements: []schema.Element{
					schema.Field("ClOrdID", true),
					schema.Component("Parties", false),
					schema.Component("Instrument", true),
					schema.Field("Side", true),
					schema.Field("OrderQty", false),
					schema.Field("OrdType", true),
					schema.Field("Price", false),
					schema.Field("TransactTime", true),
					schema.Field("ExecInst", false),
					schema.Field("RawDataLength", false),
					schema.Field("RawData", false),
					schema.Field("Text", false),
				},
			},
			{
				Name:     "News",
				MsgType:  "B",
				Category: protocol.MessageCategoryApp,
				Elements: []schema.Element{
					schema.Group("LinesOfText", true, schema.Field("Text", true)),
					schema.Field("Headline", true),
				},
			},
			{
				Name:     "NewOrderMultileg",
				MsgType:  "AB",
				Category: protocol.MessageCategoryApp,
				Elements: []schema.Element{
					schema.Field("ClOrdID", true),
					schema.Component("Parties", false),
					schema.Component("Instrument", false),
					schema.Field("Side", true),
					schema.Group("NoLegs", true,
						schema.Component("InstrumentLeg", false),
						schema.Component("NestedParties", false),
					),
				},
			},
		},
	}
}

const testTransactTime = "20240305-13:04:05.123"

// newTestOrder returns a valid NewOrderSingle with one party.
func newTestOrder(clOrdID string) *Message {
	m := NewMessage()
	m.Header.Set(protocol.TagBeginString, "FIX.4.4")
	m.Header.Set(protocol.TagMsgType, "D")
	m.Header.Set(protocol.TagSenderCompID, "SENDER")
	m.Header.Set(protocol.TagTargetCompID, "TARGET")
	m.Header.SetInt(protocol.TagMsgSeqNum, 1)
	m.Header.Set(protocol.TagSendingTime, testTransactTime)

	m.Body.Set(11, clOrdID)
	m.Body.Set(55, "AAPL")
	m.Body.Set(54, "1")
	m.Body.Set(38, "100")
	m.Body.Set(40, "2")
	m.Body.Set(44, "10.5")
	m.Body.Set(60, testTransactTime)

	party := NewGroupWithOrder(453, 448, []int{448, 447, 452})
	party.Set(448, "BROKER")
	party.Set(447, "D")
	party.Set(452, "1")
	m.Body.AddGroup(party)

	m.Build()
	return m
}

// newTestMultileg returns a valid NewOrderMultileg with two legs, the first
// one carrying two nested parties.
func newTestMultileg(dd *DataDictionary, clOrdID string) *Message {
	m := NewMessage()
	m.Header.Set(protocol.TagBeginString, "FIX.4.4")
	m.Header.Set(protocol.TagMsgType, "AB")
	m.Header.Set(protocol.TagSenderCompID, "SENDER")
	m.Header.Set(protocol.TagTargetCompID, "TARGET")
	m.Header.SetInt(protocol.TagMsgSeqNum, 2)
	m.Header.Set(protocol.TagSendingTime, testTransactTime)

	m.Body.Set(11, clOrdID)
	m.Body.Set(54, "2")

	for i, symbol := range []string{"AAPL", "MSFT"} {
		leg, _ := dd.NewGroup("AB", 555)
		leg.Set(600, symbol)
		if i == 0 {
			legDD, _ := dd.Group("AB", 555)
			for _, id := range []string{"N1", "N2"} {
				nested, _ := legDD.Dictionary.NewGroup("AB", 539)
				nested.Set(525, "C")
				nested.Set(524, id)
				leg.AddGroup(nested)
			}
		}
		m.Body.AddGroup(leg)
	}

	m.Build()
	return m
}
