// Package flagx keeps the config layers of the divelog CLI from tripping
// over each other's flags: the JSON layer owns -c/-config while the flag
// layer owns -p/-d/-t, and each parses only what it owns.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns the subset of args that belongs to allowedFlags, so a
// FlagSet can parse it without choking on flags owned by another layer.
//
// Both flag forms are recognized:
//  1. flag and value as separate arguments:  -p divelog-prod
//  2. flag and value joined with '=':        -config=divelog.json
//
// args is usually os.Args[1:]; allowedFlags lists the flag tokens to keep
// (e.g. []string{"-p", "-d", "-t"}). Values given as separate arguments
// travel with their flag.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	// Empty, never nil, so callers can hand it straight to FlagSet.Parse.
	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "-config=divelog.json" form: match on the part before '='.
		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		// "-p divelog-prod" form: keep the flag, and the following token
		// too unless it looks like another flag.
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

// JsonConfigFlags extracts the config file path given via -c or -config,
// ignoring every other argument. Returns "" when neither is present.
func JsonConfigFlags() string {
	var config string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return config
}
