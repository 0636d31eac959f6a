package logging

import (
	"fmt"
	"log"

	"github.com/ttacon/chalk"
)

// Check panics with a red message when err is non-nil. For unrecoverable
// setup failures only; runtime paths return errors instead.
func Check(err error, msg string) {
	if err != nil {
		fmt.Print(chalk.Red)
		log.Print(msg, chalk.Reset)
		log.Panicln(err)
	}
}

// Assert panics with a red message when ok is false.
func Assert(ok bool, msg string) {
	if !ok {
		fmt.Print(chalk.Red)
		log.Print(msg, chalk.Reset)
		log.Panic()
	}
}
