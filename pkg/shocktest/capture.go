package shocktest

import (
	"bytes"
	"io"
	"os"

	"golang.org/x/sync/errgroup"
)

// CaptureStdout runs fn and returns everything it wrote to os.Stdout.
// os.Stdout is restored even if fn panics.
func CaptureStdout(fn func()) string {
	return capture(&os.Stdout, fn)
}

// CaptureStderr runs fn and returns everything it wrote to os.Stderr.
// os.Stderr is restored even if fn panics.
func CaptureStderr(fn func()) string {
	return capture(&os.Stderr, fn)
}

// ExpectStdout fails unless fn writes exactly expected to os.Stdout.
func ExpectStdout(fn func(), expected string) {
	expectStreamEq("stdout", CaptureStdout(fn), expected)
}

// ExpectStderr fails unless fn writes exactly expected to os.Stderr.
func ExpectStderr(fn func(), expected string) {
	expectStreamEq("stderr", CaptureStderr(fn), expected)
}

func expectStreamEq(stream, actual, expected string) {
	if actual != expected {
		Failf("%s mismatch. Expected: %q, got: %q", stream, expected, actual)
	}
}

// capture redirects *target into a pipe while fn runs. The pipe is drained
// concurrently so fn cannot block on a full pipe buffer.
func capture(target **os.File, fn func()) string {
	r, w, err := os.Pipe()
	if err != nil {
		Failf("capture: %v", err)
	}

	orig := *target
	*target = w

	var buf bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(&buf, r)
		return err
	})

	restored := false
	restore := func() error {
		restored = true
		*target = orig
		w.Close()
		err := g.Wait()
		r.Close()
		return err
	}
	defer func() {
		if !restored {
			// fn panicked; undo the redirection and let the panic continue.
			_ = restore()
		}
	}()

	fn()

	if err := restore(); err != nil {
		Failf("capture: %v", err)
	}
	return buf.String()
}
