package cephconf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitorAddresses_VectorsAndIPv6(t *testing.T) {
	cfg := NewConfig()
	cfg.Set("global", "mon_host", "[v2:10.0.0.1:3300/0,v1:10.0.0.1:6789/0] ::1 2001:db8::1:6789")
	cfg.Set("mon.a", "mon_addr", "10.0.0.2:6789")

	got := MonitorAddresses(cfg)

	assert.Equal(t, "10.0.0.1,10.0.0.2:6789,[2001:db8::1]:6789,[::1]", got)
}

func TestMonitorAddresses_NoMonitors(t *testing.T) {
	cfg := NewConfig()
	cfg.Set("global", "fsid", "abc")

	assert.Equal(t, "", MonitorAddresses(cfg))
}

func TestMonitorAddresses_DeduplicatesAcrossGlobalAndMonSections(t *testing.T) {
	cfg := NewConfig()
	cfg.Set("global", "mon_host", "10.0.0.2:6789")
	cfg.Set("mon.a", "mon_addr", "10.0.0.2:6789")

	assert.Equal(t, "10.0.0.2:6789", MonitorAddresses(cfg))
}

func TestMonitorAddresses_StableUnderRoundTrip(t *testing.T) {
	cfg := NewConfig()
	cfg.Set("global", "mon_host", "[v2:10.0.0.101:3300/0,v1:10.0.0.101:6789/0] [v2:10.0.0.102:3300/0,v1:10.0.0.102:6789/0]")
	cfg.Set("mon.a", "mon_addr", "10.0.0.103:6789")

	before := MonitorAddresses(cfg)

	roundTripped, diags := Parse(Write(cfg))
	require.Empty(t, diags)

	after := MonitorAddresses(roundTripped)

	assert.Equal(t, before, after)
}

func TestMonHostEndpoints_MessengerVersionsAndMixedPorts(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "plain IPs default unspecified port stays unset",
			line: "192.0.2.1,192.0.2.2,192.0.2.3",
			want: []string{"192.0.2.1", "192.0.2.2", "192.0.2.3"},
		},
		{
			name: "IPs with spaces",
			line: "192.0.2.1, 192.0.2.2, 192.0.2.3",
			want: []string{"192.0.2.1", "192.0.2.2", "192.0.2.3"},
		},
		{
			name: "some ports present",
			line: "192.0.2.1:6789,192.0.2.2:3300,192.0.2.3",
			want: []string{"192.0.2.1:6789", "192.0.2.2:3300", "192.0.2.3"},
		},
		{
			name: "DNS names with some ports",
			line: "foo.example.com:3300,bar.example.com:6789,baz.example.com",
			want: []string{"foo.example.com:3300", "bar.example.com:6789", "baz.example.com"},
		},
		{
			name: "messenger versions mixed bracketed and bare",
			line: "v1:192.0.2.1:6789,[v1:192.0.2.2],v2:192.0.2.3,[v2:192.0.2.4]",
			want: []string{"192.0.2.1:6789", "192.0.2.2", "192.0.2.3", "192.0.2.4"},
		},
		{
			name: "IPv6 addresses bracketed",
			line: "[2001:db8::1]:6789,[2001:db8::2],[2001:db8::3]:3300",
			want: []string{"[2001:db8::1]:6789", "[2001:db8::2]", "[2001:db8::3]:3300"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, monHostEndpoints(tt.line))
		})
	}
}

func TestHostList_JoinsWithCallerSeparator(t *testing.T) {
	got := HostList("192.0.2.1,192.0.2.2", "; ")
	assert.Equal(t, "192.0.2.1; 192.0.2.2", got)
}
