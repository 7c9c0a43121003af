package confloader

import (
	"errors"
	"fmt"
	"strings"
)

// Args is the parsed server command line:
//
//	kv-server [config-file] [--key value ...] [-]
type Args struct {
	// ConfigFile is the first argument when it does not start with '-'.
	ConfigFile string
	// Stdin is set when the last argument is "-".
	Stdin bool
	// Overrides holds the --key value pairs, keys lower-cased.
	Overrides map[string]string
}

// ParseArgs parses the server command line (without the program name).
//
// Malformed pairs do not abort parsing: a --key with no value and a value
// with no --key are skipped and reported together in the returned error,
// while everything else is still returned in Args.
func ParseArgs(args []string) (Args, error) {
	out := Args{Overrides: make(map[string]string)}

	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		out.ConfigFile = args[0]
		args = args[1:]
	}
	if len(args) > 0 && args[len(args)-1] == "-" {
		out.Stdin = true
		args = args[:len(args)-1]
	}

	var (
		errs    []error
		pending string
	)
	for _, arg := range args {
		if k, ok := strings.CutPrefix(arg, "--"); ok {
			if pending != "" {
				errs = append(errs, fmt.Errorf("missing value for --%s", pending))
			}
			pending = strings.ToLower(k)
			if pending == "" {
				errs = append(errs, errors.New("empty option name \"--\""))
			}
			continue
		}
		if pending == "" {
			errs = append(errs, fmt.Errorf("invalid argument %q", arg))
			continue
		}
		out.Overrides[pending] = arg
		pending = ""
	}
	if pending != "" {
		errs = append(errs, fmt.Errorf("missing value for --%s", pending))
	}

	return out, errors.Join(errs...)
}
