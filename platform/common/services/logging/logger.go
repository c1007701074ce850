/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logging

import (
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/hyperledger/fabric-lib-go/common/flogging"
	"github.com/hyperledger/fabric-lib-go/common/flogging/floggingtest"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides logging API
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Panic(args ...interface{})
	Panicf(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	IsEnabledFor(level zapcore.Level) bool
	Named(name string) Logger
	Warnw(format string, args ...interface{})
	Errorw(format string, args ...interface{})
	With(args ...interface{}) Logger
	Zap() *zap.Logger
}

type Recorder = floggingtest.Recorder

type Option = floggingtest.Option

func Named(loggerName string) Option {
	return func(r *floggingtest.RecordingCore, l *zap.Logger) *zap.Logger {
		return l.Named(loggerName)
	}
}

// MustGetLogger returns a logger named after the calling package.
// The optional params are appended to the name, separated by dots.
func MustGetLogger(params ...string) Logger {
	pkg, err := GetPackageName()
	if err != nil {
		panic(err)
	}
	name := loggerName(pkg)
	if len(params) > 0 {
		name = name + "." + strings.Join(params, ".")
	}
	return &logger{FabricLogger: flogging.MustGetLogger(name)}
}

func NewTestLogger(tb testing.TB, options ...Option) (Logger, *Recorder) {
	l, r := floggingtest.NewTestLogger(tb, options...)
	return &logger{FabricLogger: l}, r
}

// GetPackageName returns the import path of the first caller outside this package
func GetPackageName() (string, error) {
	self := packageOf(funcName(1))
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if pkg := packageOf(frame.Function); pkg != self && pkg != "" {
			return pkg, nil
		}
		if !more {
			return "", errors.New("cannot determine caller package")
		}
	}
}

func funcName(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return runtime.FuncForPC(pc).Name()
}

// packageOf strips the function and receiver from a fully qualified function name
func packageOf(function string) string {
	if i := strings.Index(function, "["); i >= 0 {
		function = function[:i]
	}
	slash := strings.LastIndex(function, "/")
	dot := strings.Index(function[slash+1:], ".")
	if dot < 0 {
		return function
	}
	return function[:slash+1+dot]
}

// loggerName turns the path separators of pkg into dots, after shortening it with the longest
// registered replacer. Underscores within a path segment are kept.
func loggerName(pkg string) string {
	rs := Replacers()
	prefixes := make([]string, 0, len(rs))
	for s := range rs {
		prefixes = append(prefixes, s)
	}
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })
	for _, s := range prefixes {
		if prefix := strings.ReplaceAll(s, "_", "/"); strings.HasPrefix(pkg, prefix) {
			pkg = rs[s] + strings.TrimPrefix(pkg, prefix)
			break
		}
	}
	return strings.ReplaceAll(pkg, "/", ".")
}

type logger struct {
	*flogging.FabricLogger
}

func (l *logger) Named(name string) Logger {
	return &logger{FabricLogger: l.FabricLogger.Named(name)}
}

func (l *logger) With(args ...interface{}) Logger {
	return &logger{FabricLogger: l.FabricLogger.With(args...)}
}
