package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/iov-one/mkeyring/crypto/multied25519"
)

// stringsFlag collects all values of a flag that can be given multiple
// times.
type stringsFlag []string

func (s *stringsFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringsFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// flStrings returns a value that collects every occurrence of the flag.
func flStrings(fl *flag.FlagSet, name, usage string) *[]string {
	var s stringsFlag
	fl.Var(&s, name, usage)
	return (*[]string)(&s)
}

// hexFlag is a byte value given in its hex representation, 0x prefix
// optional.
type hexFlag []byte

func (h *hexFlag) String() string {
	if h == nil || len(*h) == 0 {
		return ""
	}
	return multied25519.EncodeHex(*h)
}

func (h *hexFlag) Set(v string) error {
	b, err := multied25519.DecodeHex(v)
	if err != nil {
		return err
	}
	*h = b
	return nil
}

// flHex returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flHex(fl *flag.FlagSet, name, defaultVal, usage string) *[]byte {
	var h hexFlag
	if defaultVal != "" {
		if err := h.Set(defaultVal); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q hex flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&h, name, usage)
	return (*[]byte)(&h)
}
