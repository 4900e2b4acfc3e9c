package fix

const (
	// Version is the current version of the FIX core library.
	Version = "v1.0.0"

	// SOH separates fields on the wire.
	SOH byte = 0x01

	// UTCTimestampFormat is the millisecond precision UTCTimestamp layout.
	UTCTimestampFormat = "20060102-15:04:05.000"
	// UTCTimestampSecondsFormat is the second precision UTCTimestamp layout.
	UTCTimestampSecondsFormat = "20060102-15:04:05"

	headerContext  = "_header_"
	trailerContext = "_trailer_"
)
