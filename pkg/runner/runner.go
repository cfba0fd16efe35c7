package runner

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	log "github.com/cloud-bulldozer/nx/pkg/logging"
	"github.com/cloud-bulldozer/nx/pkg/sample"
	"golang.org/x/sys/unix"
)

const (
	// NotFoundCode is the exit code recorded when the command does not exist.
	NotFoundCode = 127
	// NotExecutableCode is the exit code recorded for any other exec failure.
	NotExecutableCode = 126
)

// ErrSpawn is returned when a child process could not be created at all.
var ErrSpawn = errors.New("unable to create process")

// Errnos that mean the exec itself was refused for this file.
var execErrnos = []error{
	unix.EACCES,
	unix.ENOEXEC,
	unix.EPERM,
	unix.ENOTDIR,
	unix.EISDIR,
	unix.ELOOP,
	unix.ENAMETOOLONG,
	unix.ETXTBSY,
	unix.E2BIG,
}

// Runner executes one command at a time and reports how long it took.
// The standard streams default to the ones of the current process.
type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns a Runner whose children inherit our stdio.
func New() *Runner {
	return &Runner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes argv once, blocks until it terminates, and returns its
// timing together with how it ended. Only a failure to create the process
// is returned as an error; exec failures become exit codes 126 and 127.
func (r *Runner) Run(argv []string) (sample.Sample, sample.Outcome, error) {
	if len(argv) == 0 {
		return sample.Sample{}, sample.Outcome{}, fmt.Errorf("%w: empty command", ErrSpawn)
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	// execvp would run a match from a "." PATH entry, so do we.
	if errors.Is(cmd.Err, exec.ErrDot) {
		cmd.Err = nil
	}
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	before := time.Now()
	if err := cmd.Start(); err != nil {
		after := time.Now()
		code, ok := execFailureCode(err)
		if !ok {
			return sample.Sample{}, sample.Outcome{}, fmt.Errorf("%w: %v", ErrSpawn, err)
		}
		log.Errorf("%s: %v", argv[0], err)
		return sample.Sample{Real: after.Sub(before).Seconds()}, sample.Outcome{ExitCode: code}, nil
	}
	err := cmd.Wait()
	after := time.Now()

	state := cmd.ProcessState
	if state == nil {
		return sample.Sample{}, sample.Outcome{}, fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		// The child ran but copying its output failed; timing is still valid.
		log.Warnf("%s: %v", argv[0], err)
	}
	s := sample.Sample{
		Real: after.Sub(before).Seconds(),
		User: state.UserTime().Seconds(),
		Sys:  state.SystemTime().Seconds(),
	}
	o := outcome(state)
	if o.Abnormal() {
		log.Errorf("Command terminated abnormally (%s).", o.Signal)
	}
	log.Debugf("%s exited with %d after %.3fs", argv[0], o.ExitCode, s.Real)
	return s, o, nil
}

func outcome(state *os.ProcessState) sample.Outcome {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return sample.Outcome{ExitCode: -1, Signaled: true, Signal: ws.Signal().String()}
	}
	if !state.Exited() {
		return sample.Outcome{ExitCode: -1, Signaled: true, Signal: state.String()}
	}
	return sample.Outcome{ExitCode: state.ExitCode()}
}

// execFailureCode maps a Start error caused by the target program to the
// shell's conventional exit code. ok is false for errors that say nothing
// about the program, i.e. the process could not be created.
func execFailureCode(err error) (code int, ok bool) {
	var lookErr *exec.Error
	if errors.As(err, &lookErr) {
		if errors.Is(lookErr.Err, exec.ErrNotFound) && !onPath(lookErr.Name) {
			return NotFoundCode, true
		}
		if errors.Is(lookErr.Err, fs.ErrNotExist) {
			return NotFoundCode, true
		}
		return NotExecutableCode, true
	}
	if errors.Is(err, fs.ErrNotExist) {
		return NotFoundCode, true
	}
	for _, errno := range execErrnos {
		if errors.Is(err, errno) {
			return NotExecutableCode, true
		}
	}
	return 0, false
}

// onPath reports whether name exists in some PATH directory. LookPath skips
// entries it cannot execute, but execvp reports those as EACCES (126).
func onPath(name string) bool {
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			dir = "."
		}
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}
