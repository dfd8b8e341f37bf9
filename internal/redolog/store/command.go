package store

import (
	"fmt"
	"strings"
)

// CommandKind identifies the type of a logged command.
type CommandKind uint8

const (
	CommandUnknown CommandKind = iota
	CommandSet
	CommandDelete
)

func (k CommandKind) String() string {
	switch k {
	case CommandSet:
		return "SET"
	case CommandDelete:
		return "DEL"
	default:
		return "UNKNOWN"
	}
}

// Command is one store mutation, encoded as a log entry payload.
//
// The wire form is text:
//
//	SET <key> = <value>
//	DEL <key>
//
// Keys must not contain whitespace; values may.
type Command struct {
	Kind  CommandKind
	Key   string
	Value string
}

// ValidateKey checks that a key can round-trip through the wire form: it must
// be non-empty and contain no whitespace, since the parser splits on spaces.
// Callers must validate before a command is appended to the log; an entry with
// a bad key would be durable but unreplayable.
func ValidateKey(key string) error {
	if key == "" || strings.ContainsAny(key, " \t") {
		return wrapCommandErr(ErrInvalidKey, key)
	}
	return nil
}

// Set builds a SET command.
func Set(key, value string) Command {
	return Command{Kind: CommandSet, Key: key, Value: value}
}

// Delete builds a DEL command.
func Delete(key string) Command {
	return Command{Kind: CommandDelete, Key: key}
}

// Encode renders the command as an entry payload.
func (c Command) Encode() []byte {
	switch c.Kind {
	case CommandSet:
		return []byte(fmt.Sprintf("SET %s = %s", c.Key, c.Value))
	case CommandDelete:
		return []byte(fmt.Sprintf("DEL %s", c.Key))
	default:
		return nil
	}
}

// ParseCommand decodes an entry payload back into a Command.
func ParseCommand(payload []byte) (Command, error) {
	s := string(payload)
	if strings.TrimSpace(s) == "" {
		return Command{}, wrapCommandErr(ErrEmptyCommand, s)
	}

	switch {
	case strings.HasPrefix(s, "SET "):
		rest := s[len("SET "):]
		sep := strings.Index(rest, " = ")
		if sep <= 0 {
			return Command{}, wrapCommandErr(ErrMalformedCommand, s)
		}
		key := rest[:sep]
		value := rest[sep+len(" = "):]
		if strings.ContainsAny(key, " \t") {
			return Command{}, wrapCommandErr(ErrMalformedCommand, s)
		}
		return Command{Kind: CommandSet, Key: key, Value: value}, nil

	case strings.HasPrefix(s, "DEL "):
		key := s[len("DEL "):]
		if key == "" || strings.ContainsAny(key, " \t") {
			return Command{}, wrapCommandErr(ErrMalformedCommand, s)
		}
		return Command{Kind: CommandDelete, Key: key}, nil

	default:
		return Command{}, wrapCommandErr(ErrUnknownCommand, s)
	}
}
