package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("NEWSDESK_TEST_STRING", "  value ")
	assert.Equal(t, "value", GetEnvString("NEWSDESK_TEST_STRING", "def"))

	t.Setenv("NEWSDESK_TEST_STRING", "   ")
	assert.Equal(t, "def", GetEnvString("NEWSDESK_TEST_STRING", "def"))

	assert.Equal(t, "def", GetEnvString("NEWSDESK_TEST_UNSET", "def"))
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "unset", value: "", want: 7},
		{name: "valid", value: "42", want: 42},
		{name: "negative", value: "-3", want: -3},
		{name: "garbage", value: "forty", want: 7},
		{name: "float", value: "1.5", want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NEWSDESK_TEST_INT", tt.value)
			assert.Equal(t, tt.want, GetEnvInt("NEWSDESK_TEST_INT", 7))
		})
	}
}

func TestGetEnvInt64(t *testing.T) {
	t.Setenv("NEWSDESK_TEST_INT64", "1048576")
	assert.Equal(t, int64(1<<20), GetEnvInt64("NEWSDESK_TEST_INT64", 0))

	t.Setenv("NEWSDESK_TEST_INT64", "1MB")
	assert.Equal(t, int64(5), GetEnvInt64("NEWSDESK_TEST_INT64", 5))
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "true", want: true},
		{value: "1", want: true},
		{value: "FALSE", want: false},
		{value: "0", want: false},
		{value: "yes", want: true},
		{value: "", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("NEWSDESK_TEST_BOOL", tt.value)
			assert.Equal(t, tt.want, GetEnvBool("NEWSDESK_TEST_BOOL", true))
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("NEWSDESK_TEST_DURATION", "1h30m")
	assert.Equal(t, 90*time.Minute, GetEnvDuration("NEWSDESK_TEST_DURATION", time.Second))

	t.Setenv("NEWSDESK_TEST_DURATION", "90")
	assert.Equal(t, time.Second, GetEnvDuration("NEWSDESK_TEST_DURATION", time.Second))
}
