// Package fatal implements the single escape hatch for the non-recoverable error classes:
// configuration errors and hardware/RTOS errors. Both log one line describing the cause and
// halt the process — there is no automatic restart.
package fatal

import (
	"fmt"
	"os"

	"github.com/LisaRowell/LunaMonESP/internal/logging"
)

// Exit logs cause through log and halts the process. It is the Go analogue of the original
// firmware's errorExit: a deliberate, rare, one-line death, never used for the recoverable
// frame/bounds/backpressure error classes.
var Exit = func(log logging.Logger, cause string) {
	log.Errorf("errorExit: %s", cause)
	os.Exit(1)
}

// Exitf is Exit with printf-style formatting.
func Exitf(log logging.Logger, format string, v ...interface{}) {
	Exit(log, fmt.Sprintf(format, v...))
}
