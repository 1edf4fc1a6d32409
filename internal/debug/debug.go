package debug

import (
	"fmt"
	"io"
	"os"
)

var Enabled = false

// Output receives debug lines. It is stderr so that stdout only ever carries
// the commit message.
var Output io.Writer = os.Stderr

func Printf(format string, args ...interface{}) {
	if Enabled {
		fmt.Fprintf(Output, format, args...)
	}
}

func Println(args ...interface{}) {
	if Enabled {
		fmt.Fprintln(Output, args...)
	}
}
