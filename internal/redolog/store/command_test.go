package store_test

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/julianstephens/redolog/internal/redolog/store"
)

func TestCommandEncode(t *testing.T) {
	assert.Equal(t, "SET key1 = value1", string(store.Set("key1", "value1").Encode()))
	assert.Equal(t, "DEL key1", string(store.Delete("key1").Encode()))
	assert.Equal(t, "SET key1 = ", string(store.Set("key1", "").Encode()))
	assert.Equal(t, "SET key1 = a = b", string(store.Set("key1", "a = b").Encode()))
}

func TestParseCommand(t *testing.T) {
	testCases := []struct {
		name     string
		payload  string
		expected store.Command
	}{
		{"set", "SET key1 = value1", store.Set("key1", "value1")},
		{"del", "DEL key1", store.Delete("key1")},
		{"set_empty_value", "SET key1 = ", store.Set("key1", "")},
		{"set_value_with_spaces", "SET key1 = hello world", store.Set("key1", "hello world")},
		{"set_value_with_separator", "SET key1 = a = b", store.Set("key1", "a = b")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := store.ParseCommand([]byte(tc.payload))
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, cmd)
		})
	}
}

func TestParseCommandRoundTrip(t *testing.T) {
	commands := []store.Command{
		store.Set("key1", "value1"),
		store.Set("k", "v with spaces"),
		store.Delete("key1"),
	}

	for _, cmd := range commands {
		parsed, err := store.ParseCommand(cmd.Encode())
		assert.NoError(t, err)
		assert.Equal(t, cmd, parsed)
	}
}

func TestParseCommandRejectsInvalid(t *testing.T) {
	testCases := []struct {
		name     string
		payload  string
		sentinel error
	}{
		{"empty", "", store.ErrEmptyCommand},
		{"whitespace_only", "   ", store.ErrEmptyCommand},
		{"unknown_verb", "PUT key1 = value1", store.ErrUnknownCommand},
		{"lowercase_verb", "set key1 = value1", store.ErrUnknownCommand},
		{"set_without_separator", "SET key1 value1", store.ErrMalformedCommand},
		{"set_missing_key", "SET  = value1", store.ErrMalformedCommand},
		{"set_key_with_space", "SET bad key = value1", store.ErrMalformedCommand},
		{"del_missing_key", "DEL ", store.ErrMalformedCommand},
		{"del_key_with_space", "DEL bad key", store.ErrMalformedCommand},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.ParseCommand([]byte(tc.payload))
			assert.Error(t, err)
			assert.True(t, errors.Is(err, tc.sentinel))

			var cmdErr *store.CommandError
			assert.True(t, errors.As(err, &cmdErr))
			assert.Equal(t, tc.payload, cmdErr.Input)
		})
	}
}

func TestValidateKey(t *testing.T) {
	assert.NoError(t, store.ValidateKey("key1"))
	assert.NoError(t, store.ValidateKey("user:1"))
	assert.NoError(t, store.ValidateKey("a=b"))

	for _, key := range []string{"", "bad key", "bad\tkey", " ", "trailing "} {
		err := store.ValidateKey(key)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, store.ErrInvalidKey))
	}
}

func TestCommandKindString(t *testing.T) {
	assert.Equal(t, "SET", store.CommandSet.String())
	assert.Equal(t, "DEL", store.CommandDelete.String())
	assert.Equal(t, "UNKNOWN", store.CommandUnknown.String())
}
