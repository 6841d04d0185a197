// Package rlog is the engine's internal structured logger. It mirrors the
// shape of rclone's fs.Debugf / fs.Infof / fs.Errorf family (a %v-style
// "subject" first argument identifying the component or location, followed
// by a printf format) but is backed by logrus instead of rclone's own
// formatter. This is deliberately separate from internal/console, which is
// the colored reporter the CLI entry point owns (spec.md §1 keeps "colored
// log formatting" external to the core).
package rlog

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

var std = logrus.New()

// SetLevel adjusts verbosity; the CLI calls this from its --verbose flag.
func SetLevel(level logrus.Level) {
	std.SetLevel(level)
}

func entry(subject any) *logrus.Entry {
	return std.WithField("component", fmt.Sprint(subject))
}

// Debugf logs a debug-level message about subject.
func Debugf(subject any, format string, args ...any) {
	entry(subject).Debugf(format, args...)
}

// Infof logs an info-level message about subject.
func Infof(subject any, format string, args ...any) {
	entry(subject).Infof(format, args...)
}

// Errorf logs an error-level message about subject.
func Errorf(subject any, format string, args ...any) {
	entry(subject).Errorf(format, args...)
}

// Logf logs at the default (notice-ish) level. rclone reserves Logf for
// messages that should show up without -v; we map that to Info.
func Logf(subject any, format string, args ...any) {
	Infof(subject, format, args...)
}
