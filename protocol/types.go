package protocol

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownFieldType       = errors.New("protocol: unknown field type")
	ErrUnknownMessageCategory = errors.New("protocol: unknown message category")
	ErrInvalidDayOfWeek       = errors.New("protocol: invalid day of week")
)

// FieldType is the declared data type of a field in a FIX specification.
type FieldType string

const (
	// FIX 4.0
	FieldTypeChar   FieldType = "CHAR"
	FieldTypeInt    FieldType = "INT"
	FieldTypeFloat  FieldType = "FLOAT"
	FieldTypeTime   FieldType = "TIME"
	FieldTypeDate   FieldType = "DATE"
	FieldTypeLength FieldType = "LENGTH"
	FieldTypeData   FieldType = "DATA"

	// FIX 4.1
	FieldTypeMonthYear  FieldType = "MONTHYEAR"
	FieldTypeDayOfMonth FieldType = "DAYOFMONTH"

	// FIX 4.2
	FieldTypeString              FieldType = "STRING"
	FieldTypePrice               FieldType = "PRICE"
	FieldTypeAmount              FieldType = "AMT"
	FieldTypeQuantity            FieldType = "QTY"
	FieldTypeCurrency            FieldType = "CURRENCY"
	FieldTypeMultipleValueString FieldType = "MULTIPLEVALUESTRING"
	FieldTypeExchange            FieldType = "EXCHANGE"
	FieldTypeUTCTimestamp        FieldType = "UTCTIMESTAMP"
	FieldTypeBoolean             FieldType = "BOOLEAN"
	FieldTypeLocalMarketDate     FieldType = "LOCALMKTDATE"
	FieldTypePriceOffset         FieldType = "PRICEOFFSET"
	FieldTypeUTCDate             FieldType = "UTCDATE"
	FieldTypeUTCTimeOnly         FieldType = "UTCTIMEONLY"

	// FIX 4.3
	FieldTypeSequenceNumber FieldType = "SEQNUM"
	FieldTypeNumInGroup     FieldType = "NUMINGROUP"
	FieldTypePercentage     FieldType = "PERCENTAGE"
	FieldTypeCountry        FieldType = "COUNTRY"

	// FIX 4.4
	FieldTypeUTCDateOnly FieldType = "UTCDATEONLY"

	// FIX 5.0
	FieldTypeMultipleCharValue   FieldType = "MULTIPLECHARVALUE"
	FieldTypeMultipleStringValue FieldType = "MULTIPLESTRINGVALUE"
	FieldTypeTZTimeOnly          FieldType = "TZTIMEONLY"
	FieldTypeTZTimestamp         FieldType = "TZTIMESTAMP"

	// FIX 5.0 SP1
	FieldTypeXMLData FieldType = "XMLDATA"

	// FIX 5.0 SP2
	FieldTypeLanguage        FieldType = "LANGUAGE"
	FieldTypeTagNum          FieldType = "TAGNUM"
	FieldTypeXIDRef          FieldType = "XIDREF"
	FieldTypeXID             FieldType = "XID"
	FieldTypeLocalMarketTime FieldType = "LOCALMKTTIME"
)

var knownFieldTypes = map[FieldType]struct{}{
	FieldTypeChar: {}, FieldTypeInt: {}, FieldTypeFloat: {}, FieldTypeTime: {},
	FieldTypeDate: {}, FieldTypeLength: {}, FieldTypeData: {}, FieldTypeMonthYear: {},
	FieldTypeDayOfMonth: {}, FieldTypeString: {}, FieldTypePrice: {}, FieldTypeAmount: {},
	FieldTypeQuantity: {}, FieldTypeCurrency: {}, FieldTypeMultipleValueString: {},
	FieldTypeExchange: {}, FieldTypeUTCTimestamp: {}, FieldTypeBoolean: {},
	FieldTypeLocalMarketDate: {}, FieldTypePriceOffset: {}, FieldTypeUTCDate: {},
	FieldTypeUTCTimeOnly: {}, FieldTypeSequenceNumber: {}, FieldTypeNumInGroup: {},
	FieldTypePercentage: {}, FieldTypeCountry: {}, FieldTypeUTCDateOnly: {},
	FieldTypeMultipleCharValue: {}, FieldTypeMultipleStringValue: {},
	FieldTypeTZTimeOnly: {}, FieldTypeTZTimestamp: {}, FieldTypeXMLData: {},
	FieldTypeLanguage: {}, FieldTypeTagNum: {}, FieldTypeXIDRef: {}, FieldTypeXID: {},
	FieldTypeLocalMarketTime: {},
}

// ParseFieldType converts the textual type name used by FIX specifications.
func ParseFieldType(s string) (FieldType, error) {
	t := FieldType(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := knownFieldTypes[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFieldType, s)
	}
	return t, nil
}

// IsMultipleValue reports whether values of this type are space separated lists.
func (t FieldType) IsMultipleValue() bool {
	switch t {
	case FieldTypeMultipleValueString, FieldTypeMultipleCharValue, FieldTypeMultipleStringValue:
		return true
	}
	return false
}

// IsData reports whether values of this type are length prefixed and may carry SOH.
func (t FieldType) IsData() bool {
	return t == FieldTypeData || t == FieldTypeXMLData
}

// IsNumeric reports whether values of this type are decimal numbers.
func (t FieldType) IsNumeric() bool {
	switch t {
	case FieldTypeFloat, FieldTypePrice, FieldTypeAmount, FieldTypeQuantity,
		FieldTypePriceOffset, FieldTypePercentage:
		return true
	}
	return false
}

// IsInteger reports whether values of this type are integers.
func (t FieldType) IsInteger() bool {
	switch t {
	case FieldTypeInt, FieldTypeLength, FieldTypeSequenceNumber, FieldTypeNumInGroup,
		FieldTypeTagNum, FieldTypeDayOfMonth:
		return true
	}
	return false
}

// MessageCategory separates session (admin) messages from application messages.
type MessageCategory string

const (
	MessageCategoryApp   MessageCategory = "app"
	MessageCategoryAdmin MessageCategory = "admin"
)

// ParseMessageCategory converts the msgcat attribute of a message definition.
func ParseMessageCategory(s string) (MessageCategory, error) {
	switch MessageCategory(s) {
	case MessageCategoryApp, MessageCategoryAdmin:
		return MessageCategory(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMessageCategory, s)
}

// DayOfWeek is encoded on the wire as a two letter code, SU through SA.
type DayOfWeek int8

const (
	Sunday    DayOfWeek = 1
	Monday    DayOfWeek = 2
	Tuesday   DayOfWeek = 3
	Wednesday DayOfWeek = 4
	Thursday  DayOfWeek = 5
	Friday    DayOfWeek = 6
	Saturday  DayOfWeek = 7
)

var dayCodes = [...]string{"", "SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// DayOfWeekFromCode decodes an exact wire code, SU through SA.
func DayOfWeekFromCode(code string) (DayOfWeek, error) {
	for i := 1; i < len(dayCodes); i++ {
		if dayCodes[i] == code {
			return DayOfWeek(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDayOfWeek, code)
}

// ParseDayOfWeek reads the first two letters of s, case insensitively,
// so both "TH" and "Thursday" are accepted. Use it for configuration input;
// wire values go through DayOfWeekFromCode.
func ParseDayOfWeek(s string) (DayOfWeek, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDayOfWeek, s)
	}
	code := strings.ToUpper(s[:2])
	for i := 1; i < len(dayCodes); i++ {
		if dayCodes[i] == code {
			return DayOfWeek(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDayOfWeek, s)
}

// Valid reports whether d is within Sunday..Saturday.
func (d DayOfWeek) Valid() bool {
	return d >= Sunday && d <= Saturday
}

// String returns the two letter wire code, or "" for an invalid day.
func (d DayOfWeek) String() string {
	if !d.Valid() {
		return ""
	}
	return dayCodes[d]
}
