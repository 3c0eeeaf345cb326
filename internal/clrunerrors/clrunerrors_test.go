package clrunerrors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessagesIncludeContext(t *testing.T) {
	assert.Contains(t, (&SessionNotFoundError{TerminalID: "abc"}).Error(), "abc")
	assert.Contains(t, (&SessionNotRunningError{TerminalID: "abc", Status: "exited"}).Error(), "exited")
	assert.Contains(t, (&WorkerNotAliveError{WorkerPID: 42}).Error(), "42")
	assert.Contains(t, (&UnknownKeyError{Names: []string{"bogus"}}).Error(), "bogus")
	assert.Equal(t, "no command provided", (&EmptyCommandError{}).Error())
	assert.Contains(t, (&CaptureFailureError{TerminalID: "t1"}).Error(), "t1")
	assert.Contains(t, (&LockContentionError{ExistingPID: 7}).Error(), "7")
}

func TestErrorsImplementErrorInterface(t *testing.T) {
	var errs = []error{
		&SessionNotFoundError{},
		&SessionNotRunningError{},
		&WorkerNotAliveError{},
		&UnknownKeyError{},
		&EmptyCommandError{},
		&CaptureFailureError{},
		&LockContentionError{},
	}
	for _, e := range errs {
		assert.NotEmpty(t, e.Error())
	}
}
