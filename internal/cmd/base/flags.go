package base

import (
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
)

// FlagSet wraps a flag.FlagSet to render help text the way mitchellh/cli
// commands expect it.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet returns a FlagSet that reports parse errors instead of exiting.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	f.SetOutput(io.Discard)
	return &FlagSet{f}
}

// Help returns the formatted flag documentation, suitable for appending to a
// command's Help().
func (f *FlagSet) Help() string {
	var names []string
	f.VisitAll(func(fl *flag.Flag) {
		names = append(names, fl.Name)
	})
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("\n\nOptions:\n")
	for _, name := range names {
		fl := f.Lookup(name)
		fmt.Fprintf(&b, "\n  -%s", fl.Name)
		if fl.DefValue != "" && fl.DefValue != "false" && fl.DefValue != "[]" {
			fmt.Fprintf(&b, "=%s", fl.DefValue)
		}
		fmt.Fprintf(&b, "\n      %s\n", fl.Usage)
	}
	return strings.TrimRight(b.String(), "\n")
}

// KeyValueFlag collects repeated key=value arguments in order.
type KeyValueFlag struct {
	Keys   []string
	Values []string
}

func (kv *KeyValueFlag) String() string {
	pairs := make([]string, len(kv.Keys))
	for i := range kv.Keys {
		pairs[i] = kv.Keys[i] + "=" + kv.Values[i]
	}
	return strings.Join(pairs, ",")
}

func (kv *KeyValueFlag) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	kv.Keys = append(kv.Keys, key)
	kv.Values = append(kv.Values, value)
	return nil
}

// KeyValueVar defines a repeatable key=value flag.
func (f *FlagSet) KeyValueVar(kv *KeyValueFlag, name, usage string) {
	f.Var(kv, name, usage)
}
