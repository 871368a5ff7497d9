package cmdline

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

type Stringer string

func (s Stringer) String() string {
	return string(s)
}

var _ fmt.Stringer = Stringer("")

// String returns a printable command line: environment assignments in key
// order, then the joined arguments.
func String(env map[string]string, arg ...string) Stringer {
	var ret strings.Builder
	for _, k := range slices.Sorted(maps.Keys(env)) {
		ret.WriteString(k + "=" + Join([]string{env[k]}) + " ")
	}
	ret.WriteString(Join(arg))
	return Stringer(ret.String())
}
