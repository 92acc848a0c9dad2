package shocktest

import "os"

// maxExitCode is the largest portable process exit status.
const maxExitCode = 255

// exit is replaced in tests so Main can be exercised in-process.
var exit = os.Exit

// ExitCode converts a failure count to a process exit status.
// Counts above 255 are capped so that they never wrap around to success.
func ExitCode(failures int) int {
	if failures <= 0 {
		return 0
	}
	if failures > maxExitCode {
		return maxExitCode
	}
	return failures
}

// Main runs the default registry and exits the process with the failure
// count as the exit status. Programs that need to inspect results, or run
// several times, call RunAll or NewRunner instead.
func Main() {
	exit(ExitCode(RunAll()))
}
