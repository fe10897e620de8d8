// Package flagx contains helpers for reading a subset of command-line flags
// without taking ownership of the whole argument list. Config layers use it
// to pick out only the flags they understand.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs returns the arguments of args that belong to allowedFlags,
// together with their values.
//
// Supported forms are "-c conf.json" (value as the next argument, when that
// argument does not start with '-') and "-c=conf.json". The result is never
// nil and preserves the original order.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// LookupString returns the value of the last occurrence of any of the given
// string flags in args, or "" when none is present. Names are given with
// their leading dash, e.g. LookupString(args, "-c", "-config").
func LookupString(args []string, names ...string) string {
	var value string

	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, n := range names {
		fs.StringVar(&value, strings.TrimLeft(n, "-"), "", "")
	}
	_ = fs.Parse(FilterArgs(args, names))

	return value
}

// ConfigPath returns the JSON config file path given via -c or -config.
func ConfigPath(args []string) string {
	return LookupString(args, "-c", "-config")
}

// EnvFilePath returns the dotenv file path given via -e or -env.
func EnvFilePath(args []string) string {
	return LookupString(args, "-e", "-env")
}
