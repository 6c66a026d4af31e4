package oci8

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"gopkg.in/errgo.v1"
)

// Environment carries the session character set. Every text value that
// crosses the buffer boundary goes through it, so a connection using a
// single-byte charset round-trips non-ASCII data correctly.
type Environment struct {
	Encoding             string
	MaxBytesPerCharacter uint

	enc encoding.Encoding // nil means pass-through UTF-8
}

// NewEnvironment returns the environment for the named server charset.
func NewEnvironment(charset string) (*Environment, error) {
	switch charset {
	case "", "AL32UTF8", "UTF8":
		return &Environment{Encoding: "AL32UTF8", MaxBytesPerCharacter: 4}, nil
	case "WE8ISO8859P1":
		return &Environment{Encoding: charset, MaxBytesPerCharacter: 1,
			enc: charmap.ISO8859_1}, nil
	case "WE8MSWIN1252":
		return &Environment{Encoding: charset, MaxBytesPerCharacter: 1,
			enc: charmap.Windows1252}, nil
	case "EE8ISO8859P2":
		return &Environment{Encoding: charset, MaxBytesPerCharacter: 1,
			enc: charmap.ISO8859_2}, nil
	}
	return nil, errgo.Newf("unknown charset %q", charset)
}

// FromEncodedString translates a server-encoded byte slice into a Go
// string. Bytes that do not decode are replaced, never dropped.
func (env *Environment) FromEncodedString(text []byte) string {
	if env == nil || env.enc == nil {
		return string(text)
	}
	out, err := env.enc.NewDecoder().Bytes(text)
	if err != nil {
		return string(text)
	}
	return string(out)
}

// ToEncodedBytes translates a Go string into the server encoding.
func (env *Environment) ToEncodedBytes(text string) []byte {
	if env == nil || env.enc == nil {
		return []byte(text)
	}
	out, err := env.enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return []byte(text)
	}
	return out
}
