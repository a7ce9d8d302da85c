package main

import (
	"fmt"
	"log"
	"os"
	"strings"
)

type Logger interface {
	Debug(msg string, kvs ...any)
	Info(msg string, kvs ...any)
	Warn(msg string, kvs ...any)
	Error(err error, msg string, kvs ...any)
}

var (
	DefaultLogger Logger = &kvLogger{minLevel: levelInfo, out: log.New(os.Stderr, "", log.LstdFlags)}
	VerboseLogger Logger = &kvLogger{minLevel: levelDebug, out: log.New(os.Stderr, "", log.LstdFlags)}
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

func (l level) String() string {
	switch l {
	case levelDebug:
		return "DEBUG"
	case levelInfo:
		return "INFO"
	case levelWarn:
		return "WARN"
	}
	return "ERROR"
}

type kvLogger struct {
	minLevel level
	out      *log.Logger
}

func (l *kvLogger) Debug(msg string, kvs ...any) { l.log(levelDebug, msg, kvs...) }
func (l *kvLogger) Info(msg string, kvs ...any)  { l.log(levelInfo, msg, kvs...) }
func (l *kvLogger) Warn(msg string, kvs ...any)  { l.log(levelWarn, msg, kvs...) }

func (l *kvLogger) Error(err error, msg string, kvs ...any) {
	if err != nil {
		kvs = append(kvs, "error", err)
	}
	l.log(levelError, msg, kvs...)
}

func (l *kvLogger) log(lv level, msg string, kvs ...any) {
	if lv < l.minLevel {
		return
	}
	sb := strings.Builder{}
	sb.WriteString(lv.String())
	sb.WriteString(" ")
	sb.WriteString(msg)
	for i := 0; i+1 < len(kvs); i += 2 {
		sb.WriteString(fmt.Sprintf(" %v=%v", kvs[i], kvs[i+1]))
	}
	l.out.Print(sb.String())
}
