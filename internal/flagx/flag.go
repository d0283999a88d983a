// Package flagx helps several flag sets share one command line.
//
// Each consumer filters the arguments down to the flags it owns before
// parsing, so unknown flags belonging to another consumer never abort it.
package flagx

import (
	"flag"
	"strings"
)

// FilterFor keeps the arguments that belong to flags defined in fs. Boolean
// flags never take the following argument as their value. Both "-f value"
// and "-f=value" forms are recognised; a value is taken from the following
// argument only when it does not itself start with '-'. The result is never
// nil.
func FilterFor(fs *flag.FlagSet, args []string) []string {
	keep := map[string]bool{}
	boolean := map[string]bool{}
	fs.VisitAll(func(f *flag.Flag) {
		keep["-"+f.Name], keep["--"+f.Name] = true, true
		if bf, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && bf.IsBoolFlag() {
			boolean["-"+f.Name], boolean["--"+f.Name] = true, true
		}
	})
	return filter(args, keep, boolean)
}

func filter(args []string, keep, boolean map[string]bool) []string {
	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if keep[name] {
				filtered = append(filtered, arg)
			}
			continue
		}

		if !keep[arg] {
			continue
		}
		filtered = append(filtered, arg)
		if boolean[arg] {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}
	return filtered
}

// JSONConfigPath extracts the config file path given with -c or -config.
// It returns "" when neither is present; the last occurrence wins.
func JSONConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterFor(fs, args))

	return path
}
