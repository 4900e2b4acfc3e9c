package fix

import (
	"strings"
	"testing"

	"github.com/0x5487/fixcore/protocol"
	"github.com/rs/xid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wire converts the '|' notation used in tests to SOH separated text.
func wire(s string) string {
	return strings.ReplaceAll(s, "|", "\x01")
}

func TestMessageBuild(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		m := NewMessage()
		assert.Equal(t, wire("9=0|10=167|"), string(m.Build()))
	})

	t.Run("body only", func(t *testing.T) {
		m := NewMessage()
		m.Body.Set(56, "bar")
		m.Body.Set(42, "foo")
		assert.Equal(t, wire("9=14|42=foo|56=bar|10=162|"), string(m.Build()))

		bodyLength, _ := m.Header.GetInt(protocol.TagBodyLength)
		assert.Equal(t, 14, bodyLength)
		sum, _ := m.Trailer.Get(protocol.TagCheckSum)
		assert.Equal(t, "162", sum)
	})

	t.Run("rebuild after change", func(t *testing.T) {
		m := NewMessage()
		m.Body.Set(42, "foo")
		assert.Equal(t, wire("9=7|42=foo|10=150|"), string(m.Build()))

		m.Body.Set(42, "bar")
		assert.Equal(t, wire("9=7|42=bar|10=135|"), string(m.Build()))
	})

	t.Run("begin string", func(t *testing.T) {
		m := NewMessage()
		m.Header.Set(protocol.TagMsgType, "B")
		m.Header.Set(protocol.TagBeginString, "FIX.4.4")
		m.Body.Set(148, "Headline")
		g := NewGroupWithOrder(33, 58, []int{58, 354, 355})
		g.Set(58, "hello")
		m.Body.AddGroup(g)

		assert.Equal(t, wire("8=FIX.4.4|9=32|35=B|33=1|58=hello|148=Headline|10=110|"), string(m.Build()))
	})

	t.Run("header fields sorted after msg type", func(t *testing.T) {
		m := NewMessage()
		m.Header.Set(protocol.TagTargetCompID, "TARGET")
		m.Header.Set(protocol.TagSendingTime, "20240305-13:04:05.123")
		m.Header.Set(protocol.TagSenderCompID, "SENDER")
		m.Header.Set(protocol.TagMsgSeqNum, "1")
		m.Header.Set(protocol.TagMsgType, "D")
		m.Header.Set(protocol.TagBeginString, "FIX.4.4")
		m.Body.Set(11, "ORD1")
		m.Body.Set(38, "100")
		m.Body.Set(40, "2")
		m.Body.Set(44, "10.5")
		m.Body.Set(54, "1")
		m.Body.Set(55, "AAPL")
		m.Body.Set(60, "20240305-13:04:05.123")

		expected := "8=FIX.4.4|9=121|35=D|34=1|49=SENDER|52=20240305-13:04:05.123|56=TARGET|" +
			"11=ORD1|38=100|40=2|44=10.5|54=1|55=AAPL|60=20240305-13:04:05.123|10=033|"
		assert.Equal(t, wire(expected), string(m.Build()))
	})

	t.Run("user defined header and trailer fields", func(t *testing.T) {
		m := NewMessage()
		m.Header.Set(50000, "hello")
		m.Body.Set(40000, "foo")
		assert.Equal(t, wire("9=22|50000=hello|40000=foo|10=152|"), string(m.Build()))

		m = NewMessage()
		m.Body.Set(40000, "foo")
		m.Trailer.Set(50001, "bar")
		assert.Equal(t, wire("9=20|40000=foo|50001=bar|10=184|"), string(m.Build()))
	})

	t.Run("stale framing values are replaced", func(t *testing.T) {
		m := NewMessage()
		m.Header.Set(protocol.TagBodyLength, "999")
		m.Trailer.Set(protocol.TagCheckSum, "000")
		m.Body.Set(42, "foo")
		assert.Equal(t, wire("9=7|42=foo|10=150|"), string(m.Build()))
	})
}

func TestMessageNewsGroups(t *testing.T) {
	m := NewMessage()
	m.Header.Set(protocol.TagMsgType, "B")
	m.Body.Set(148, "New great project available")

	for _, text := range []string{"Release soon", "Idea: making FIX available for everyone"} {
		g := NewGroupWithOrder(33, 58, []int{58, 354, 355})
		g.Set(58, text)
		m.Body.AddGroup(g)
	}

	expected := "9=101|35=B|33=2|58=Release soon|58=Idea: making FIX available for everyone|" +
		"148=New great project available|10=205|"
	assert.Equal(t, wire(expected), string(m.Build()))

	require.NoError(t, m.Body.RemoveGroup(33, 1))
	require.NoError(t, m.Body.RemoveGroup(33, 1))
	m.Body.Set(33, "0")
	m.Body.Set(148, "Simple news")
	assert.Equal(t, wire("9=26|35=B|33=0|148=Simple news|10=189|"), string(m.Build()))
}

func TestParseMessage(t *testing.T) {
	t.Run("routes header fields", func(t *testing.T) {
		m, err := ParseMessage([]byte(wire("42=foo|56=bar|")))
		require.NoError(t, err)

		assert.True(t, m.Header.Has(56))
		assert.True(t, m.Body.Has(42))
		assert.Equal(t, wire("9=14|56=bar|42=foo|10=162|"), string(m.Build()))
	})

	t.Run("rebuild is stable", func(t *testing.T) {
		data := []byte(wire("9=14|56=bar|42=foo|10=162|"))
		m, err := ParseMessage(data)
		require.NoError(t, err)
		assert.Equal(t, data, m.Build())
	})

	t.Run("routes trailer fields", func(t *testing.T) {
		m, err := ParseMessage([]byte(wire("8=FIX.4.4|9=5|35=0|93=3|89=abc|10=000|")))
		require.NoError(t, err)
		assert.Equal(t, []int{93, 89, 10}, m.Trailer.Tags())
		assert.Equal(t, []int{8, 9, 35}, m.Header.Tags())
		assert.Equal(t, 0, m.Body.Len())
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ParseMessage([]byte(wire("8=FIX.4.4|9x5|")))
		assert.ErrorIs(t, err, ErrInvalidMessage)
	})
}

func TestMessageRoundTrip(t *testing.T) {
	m := NewMessage()
	m.Header.Set(protocol.TagBeginString, "FIX.4.4")
	m.Header.Set(protocol.TagMsgType, "D")
	m.Header.Set(protocol.TagSenderCompID, "SENDER")
	m.Header.Set(protocol.TagTargetCompID, "TARGET")
	m.Header.SetInt(protocol.TagMsgSeqNum, 7)
	m.Body.Set(11, xid.New().String())
	m.Body.Set(55, "AAPL")
	m.Body.SetInt(38, 100)

	data := m.Build()
	require.NoError(t, VerifyFraming(data))

	parsed, err := ParseMessage(data)
	require.NoError(t, err)
	assert.Equal(t, m.Header.Fields(), parsed.Header.Fields())
	assert.Equal(t, m.Body.Fields(), parsed.Body.Fields())
	assert.Equal(t, m.Trailer.Fields(), parsed.Trailer.Fields())
	assert.Equal(t, data, parsed.Build())
}

func TestMessageAccessors(t *testing.T) {
	m := NewMessage()
	assert.Equal(t, "", m.MsgType())
	assert.False(t, m.IsAdmin())

	m.Header.Set(protocol.TagMsgType, protocol.MsgTypeLogon)
	assert.Equal(t, "A", m.MsgType())
	assert.True(t, m.IsAdmin())

	m.Header.Set(protocol.TagMsgType, "D")
	assert.False(t, m.IsAdmin())

	m.Body.Set(42, "foo")
	assert.Equal(t, "9=12|35=D|42=foo|10=", m.String()[:20])

	cpy := m.Clone()
	cpy.Body.Set(42, "bar")
	v, _ := m.Body.Get(42)
	assert.Equal(t, "foo", v)
}

func TestVerifyFraming(t *testing.T) {
	valid := wire("8=FIX.4.4|9=32|35=B|33=1|58=hello|148=Headline|10=110|")
	require.NoError(t, VerifyFraming([]byte(valid)))

	cases := map[string]string{
		"bad checksum":        wire("8=FIX.4.4|9=32|35=B|33=1|58=hello|148=Headline|10=111|"),
		"bad body length":     wire("8=FIX.4.4|9=31|35=B|33=1|58=hello|148=Headline|10=110|"),
		"missing begin":       wire("9=32|35=B|33=1|58=hello|148=Headline|10=110|"),
		"msg type not third":  wire("8=FIX.4.4|9=32|33=1|35=B|58=hello|148=Headline|10=110|"),
		"missing checksum":    wire("8=FIX.4.4|9=32|35=B|33=1|58=hello|148=Headline|"),
		"trailing data":       wire("8=FIX.4.4|9=32|35=B|33=1|58=hello|148=Headline|10=110|1=x|"),
		"truncated":           wire("8=FIX.4.4|9=32|"),
		"unterminated header": "8=FIX.4.4",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, VerifyFraming([]byte(data)), ErrInvalidMessage)
		})
	}
}
