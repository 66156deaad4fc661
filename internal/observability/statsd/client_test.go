package statsd

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePrefix(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"  ruralconnect.api  ": "ruralconnect.api",
		"..foo..":              "foo",
		".":                    "",
		"":                     "",
	}
	for input, want := range tests {
		assert.Equal(t, want, sanitizePrefix(input), "input %q", input)
	}
}

func TestNormalizeMetricName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		" notification/create ": "notification_create",
		"foo..bar":              "foo.bar",
		"multi  space":          "multi__space",
		"a:b|c":                 "a_b_c",
		"   ":                   "",
	}
	for input, want := range tests {
		assert.Equal(t, want, normalizeMetricName(input), "input %q", input)
	}
}

func TestFormatTags(t *testing.T) {
	t.Parallel()

	global := cleanTags(map[string]string{"env": "prod", " service ": " api "})
	local := map[string]string{"result": " success ", "": "ignored", "env": "stage"}

	assert.Equal(t, "|#env:stage,result:success,service:api", formatTags(global, local))
	assert.Equal(t, "", formatTags(nil, nil))
}

func TestLineFormat(t *testing.T) {
	t.Parallel()

	f := lineFormat{prefix: "rc", tags: map[string]string{"env": "prod"}}
	line, ok := f.line("apply", "2", "c", map[string]string{"result": "noop"})
	require.True(t, ok)
	assert.Equal(t, "rc.apply:2|c|#env:prod,result:noop", line)

	_, ok = f.line(" . ", "1", "c", nil)
	assert.False(t, ok, "blank names are dropped")

	line, _ = lineFormat{}.line("bare", "1", "g", nil)
	assert.Equal(t, "bare:1|g", line)
}

func TestClientWritesLines(t *testing.T) {
	t.Parallel()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	client, err := NewClient(Config{
		Enabled:    true,
		Address:    pc.LocalAddr().String(),
		Prefix:     "ruralconnect.",
		GlobalTags: map[string]string{"env": "test"},
	})
	require.NoError(t, err)
	defer client.Close()
	require.True(t, client.Enabled())

	read := func() string {
		buf := make([]byte, 512)
		require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
		n, _, rerr := pc.ReadFrom(buf)
		require.NoError(t, rerr)
		return string(buf[:n])
	}

	client.Count("application.apply", 1, map[string]string{"result": "success"})
	assert.Equal(t, "ruralconnect.application.apply:1|c|#env:test,result:success", read())

	client.Timing("broadcast", 1500*time.Microsecond, nil)
	assert.Equal(t, "ruralconnect.broadcast:1.5|ms|#env:test", read())

	client.Gauge("notifications.unread", 3, nil)
	assert.True(t, strings.HasPrefix(read(), "ruralconnect.notifications.unread:3|g"))
}

func TestClientEnabledAndClose(t *testing.T) {
	t.Parallel()

	clientConn, peerConn := net.Pipe()
	defer peerConn.Close()

	client := &Client{conn: clientConn}
	assert.True(t, client.Enabled())
	require.NoError(t, client.Close())
	assert.False(t, client.Enabled())
	require.NoError(t, client.Close())

	var nilClient *Client
	assert.False(t, nilClient.Enabled())
	require.NoError(t, nilClient.Close())
	assert.NotPanics(t, func() { nilClient.Count("x", 1, nil) })
}

func TestNewClientDisabledWithoutAddress(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{Enabled: true, Address: "   "})
	require.NoError(t, err)
	assert.False(t, client.Enabled())
}

func TestNewClientDialError(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{Enabled: true, Address: "bad address"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statsd dial")
}

func TestRecorderAndDiscard(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	rec.Count("notification.created", 2, map[string]string{"type": "job_applied"})
	rec.Count("notification.created", 3, nil)
	rec.Gauge("queue", 1.5, nil)
	rec.Timing("t", time.Second, nil)

	assert.Equal(t, int64(5), rec.Total("notification.created"))
	assert.Len(t, rec.Gauges("queue"), 1)
	assert.Equal(t, time.Second, rec.Timings("t")[0].Duration)
	assert.Equal(t, Discard, OrDiscard(nil))
	assert.Equal(t, Sink(rec), OrDiscard(rec))
	assert.NotPanics(t, func() { Discard.Count("x", 1, nil) })
}
