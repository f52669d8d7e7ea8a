package player

import (
	"errors"
	"fmt"
)

var (
	ErrNoPipeline  = errors.New("player: no pipeline")
	ErrNoVideoSink = errors.New("player: video sink is not set")
	ErrBuild       = errors.New("player: build pipeline")
)

type Reason string

const (
	ReasonParse    Reason = "parse"
	ReasonNoSource Reason = "no_source"
	ReasonLink     Reason = "link"
	ReasonWatch    Reason = "watch"
)

// BuildError - pipeline construction failure, matches ErrBuild with errors.Is
type BuildError struct {
	Description string
	Reason      Reason
	Err         error
}

func (e *BuildError) Error() string {
	s := fmt.Sprintf("player: build pipeline %q: %s", e.Description, e.Reason)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *BuildError) Is(target error) bool {
	return target == ErrBuild
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
