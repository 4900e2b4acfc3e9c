package protocol

// Tag numbers the codec itself depends on. Application tags are looked up
// through the data dictionary instead.
const (
	TagBeginString     = 8
	TagBodyLength      = 9
	TagCheckSum        = 10
	TagMsgSeqNum       = 34
	TagMsgType         = 35
	TagPossDupFlag     = 43
	TagSenderCompID    = 49
	TagSenderSubID     = 50
	TagSendingTime     = 52
	TagTargetCompID    = 56
	TagTargetSubID     = 57
	TagSignature       = 89
	TagSecureDataLen   = 90
	TagSecureData      = 91
	TagSignatureLength = 93
	TagPossResend      = 97
	TagOnBehalfOfComp  = 115
	TagOrigSendingTime = 122
	TagDeliverToCompID = 128
	TagOnBehalfOfSub   = 116
	TagDeliverToSubID  = 129
	TagSenderLocation  = 142
	TagTargetLocation  = 143
	TagOnBehalfOfLoc   = 144
	TagDeliverToLoc    = 145
	TagXMLDataLen      = 212
	TagXMLData         = 213
	TagMessageEncoding = 347
	TagLastMsgSeqNum   = 369
	TagNoHops          = 627
	TagApplVerID       = 1128
	TagCstmApplVerID   = 1129

	// UserDefinedTagMin is the first tag number reserved for user defined fields.
	UserDefinedTagMin = 5000
)

// DefaultHeaderTags lists the standard header fields shared by every FIX
// version. It is used to route fields when no data dictionary is available.
var DefaultHeaderTags = map[int]struct{}{
	TagBeginString:     {},
	TagBodyLength:      {},
	TagMsgType:         {},
	TagSenderCompID:    {},
	TagTargetCompID:    {},
	TagOnBehalfOfComp:  {},
	TagDeliverToCompID: {},
	TagSecureDataLen:   {},
	TagSecureData:      {},
	TagMsgSeqNum:       {},
	TagSenderSubID:     {},
	TagSenderLocation:  {},
	TagTargetSubID:     {},
	TagTargetLocation:  {},
	TagOnBehalfOfSub:   {},
	TagOnBehalfOfLoc:   {},
	TagDeliverToSubID:  {},
	TagDeliverToLoc:    {},
	TagPossDupFlag:     {},
	TagPossResend:      {},
	TagSendingTime:     {},
	TagOrigSendingTime: {},
	TagXMLDataLen:      {},
	TagXMLData:         {},
	TagMessageEncoding: {},
	TagLastMsgSeqNum:   {},
	TagNoHops:          {},
	TagApplVerID:       {},
	TagCstmApplVerID:   {},
}

// DefaultTrailerTags lists the standard trailer fields.
var DefaultTrailerTags = map[int]struct{}{
	TagSignatureLength: {},
	TagSignature:       {},
	TagCheckSum:        {},
}

// IsHeaderTag reports whether tag is a standard header field.
func IsHeaderTag(tag int) bool {
	_, ok := DefaultHeaderTags[tag]
	return ok
}

// IsTrailerTag reports whether tag is a standard trailer field.
func IsTrailerTag(tag int) bool {
	_, ok := DefaultTrailerTags[tag]
	return ok
}

// Session level message types. Everything else is an application message.
const (
	MsgTypeHeartbeat     = "0"
	MsgTypeTestRequest   = "1"
	MsgTypeResendRequest = "2"
	MsgTypeReject        = "3"
	MsgTypeSequenceReset = "4"
	MsgTypeLogout        = "5"
	MsgTypeLogon         = "A"
)

// IsAdminMsgType reports whether msgType belongs to the session layer.
func IsAdminMsgType(msgType string) bool {
	switch msgType {
	case MsgTypeHeartbeat, MsgTypeTestRequest, MsgTypeResendRequest,
		MsgTypeReject, MsgTypeSequenceReset, MsgTypeLogout, MsgTypeLogon:
		return true
	}
	return false
}
