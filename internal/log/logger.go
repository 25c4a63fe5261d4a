// Package log is the structured logger used across ClipCast. It wraps
// logrus with a small option-based API and knows how to expand the typed
// errors of internal/errors into fields.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"clipcast/internal/errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

var (
	isDebug = false
	logger  = NewLogger()
)

// Field is a single structured key/value pair
type Field struct {
	Key   string
	Value interface{}
}

// F creates a field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger writes levelled, structured log lines
type Logger struct {
	base *logrus.Logger
	file *os.File
}

// Option configures a Logger
type Option func(*Logger)

// WithOutput sends log lines to w
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.base.SetOutput(w)
	}
}

// WithJSON switches to one JSON object per line
func WithJSON() Option {
	return func(l *Logger) {
		l.base.SetFormatter(newJSONFormatter())
	}
}

// WithText switches to the human readable line format
func WithText() Option {
	return func(l *Logger) {
		l.base.SetFormatter(&textFormatter{})
	}
}

// WithFile tees log lines to stdout and the file at path. The file is
// opened in append mode.
func WithFile(path string) Option {
	return func(l *Logger) {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", path, err)
			return
		}
		l.file = f
		l.base.SetOutput(io.MultiWriter(os.Stdout, f))
	}
}

// WithFileOnly writes log lines only to the file at path. Interactive
// front ends use it so log output does not draw over the screen.
func WithFileOnly(path string) Option {
	return func(l *Logger) {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", path, err)
			return
		}
		l.file = f
		l.base.SetOutput(f)
	}
}

// WithDiscard drops every log line
func WithDiscard() Option {
	return func(l *Logger) {
		l.base.SetOutput(io.Discard)
	}
}

// WithLevel sets the minimum level by name ("debug", "info", "warn",
// "error"). Unknown names are ignored. "debug" also enables debug output.
func WithLevel(level string) Option {
	return func(l *Logger) {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			fmt.Fprintf(os.Stderr, "unknown log level %q, keeping %s\n", level, l.base.GetLevel())
			return
		}
		l.base.SetLevel(parsed)
		if parsed >= logrus.DebugLevel {
			isDebug = true
		}
	}
}

// NewLogger creates a logger writing to stderr. The format is text when
// stderr is a terminal and JSON otherwise; options override both.
func NewLogger(opts ...Option) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	base.SetLevel(logrus.DebugLevel)
	if term.IsTerminal(int(os.Stderr.Fd())) {
		base.SetFormatter(&textFormatter{})
	} else {
		base.SetFormatter(newJSONFormatter())
	}

	l := &Logger{base: base}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Configure replaces the package-level logger
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// Default returns the package-level logger
func Default() *Logger {
	return logger
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// SetDebug toggles debug output for every logger
func SetDebug(debug bool) {
	isDebug = debug
}

// IsDebug reports whether debug output is enabled
func IsDebug() bool {
	return isDebug
}

// Entry is a logger with fields attached
type Entry struct {
	logger *Logger
	fields logrus.Fields
}

// With returns an entry carrying the given fields
func (l *Logger) With(fields ...Field) *Entry {
	return (&Entry{logger: l, fields: logrus.Fields{}}).With(fields...)
}

// WithContext returns an entry carrying the fields stored in ctx by NewContext
func (l *Logger) WithContext(ctx context.Context) *Entry {
	return l.With(FromContext(ctx)...)
}

// With returns a copy of the entry with more fields
func (e *Entry) With(fields ...Field) *Entry {
	merged := make(logrus.Fields, len(e.fields)+len(fields))
	for k, v := range e.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	return &Entry{logger: e.logger, fields: merged}
}

// WithError returns a copy of the entry with the error expanded into fields
func (e *Entry) WithError(err error) *Entry {
	return e.With(errorFields(err)...)
}

// Each logging method calls logAt directly, so the user's frame is always
// two above logAt.
const callerSkip = 2

func (e *Entry) Debug(msg string) {
	if isDebug {
		e.logAt(logrus.DebugLevel, msg, callerSkip)
	}
}

func (e *Entry) Debugf(format string, args ...interface{}) {
	if isDebug {
		e.logAt(logrus.DebugLevel, fmt.Sprintf(format, args...), callerSkip)
	}
}

func (e *Entry) Info(msg string) {
	e.logAt(logrus.InfoLevel, msg, callerSkip)
}

func (e *Entry) Infof(format string, args ...interface{}) {
	e.logAt(logrus.InfoLevel, fmt.Sprintf(format, args...), callerSkip)
}

func (e *Entry) Warn(msg string) {
	e.logAt(logrus.WarnLevel, msg, callerSkip)
}

func (e *Entry) Warnf(format string, args ...interface{}) {
	e.logAt(logrus.WarnLevel, fmt.Sprintf(format, args...), callerSkip)
}

func (e *Entry) Error(msg string) {
	e.logAt(logrus.ErrorLevel, msg, callerSkip)
}

func (e *Entry) Errorf(format string, args ...interface{}) {
	e.logAt(logrus.ErrorLevel, fmt.Sprintf(format, args...), callerSkip)
}

func (e *Entry) logAt(level logrus.Level, msg string, skip int) {
	fields := make(logrus.Fields, len(e.fields)+1)
	for k, v := range e.fields {
		fields[k] = v
	}
	if _, file, line, ok := runtime.Caller(skip); ok {
		fields["caller"] = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	e.logger.base.WithFields(fields).Log(level, msg)
}

func (l *Logger) entry() *Entry {
	return &Entry{logger: l}
}

func (l *Logger) Debug(msg string) {
	if isDebug {
		l.entry().logAt(logrus.DebugLevel, msg, callerSkip)
	}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug {
		l.entry().logAt(logrus.DebugLevel, fmt.Sprintf(format, args...), callerSkip)
	}
}

func (l *Logger) Info(msg string) {
	l.entry().logAt(logrus.InfoLevel, msg, callerSkip)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.entry().logAt(logrus.InfoLevel, fmt.Sprintf(format, args...), callerSkip)
}

func (l *Logger) Warn(msg string) {
	l.entry().logAt(logrus.WarnLevel, msg, callerSkip)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.entry().logAt(logrus.WarnLevel, fmt.Sprintf(format, args...), callerSkip)
}

func (l *Logger) Error(msg string) {
	l.entry().logAt(logrus.ErrorLevel, msg, callerSkip)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.entry().logAt(logrus.ErrorLevel, fmt.Sprintf(format, args...), callerSkip)
}

// Info logs on the package-level logger
func Info(msg string) {
	logger.entry().logAt(logrus.InfoLevel, msg, callerSkip)
}

// Infof logs a formatted message on the package-level logger
func Infof(format string, args ...interface{}) {
	logger.entry().logAt(logrus.InfoLevel, fmt.Sprintf(format, args...), callerSkip)
}

// Debug logs when debug output is enabled
func Debug(msg string) {
	if isDebug {
		logger.entry().logAt(logrus.DebugLevel, msg, callerSkip)
	}
}

// Debugf logs a formatted message when debug output is enabled
func Debugf(format string, args ...interface{}) {
	if isDebug {
		logger.entry().logAt(logrus.DebugLevel, fmt.Sprintf(format, args...), callerSkip)
	}
}

// Warn logs a warning
func Warn(msg string) {
	logger.entry().logAt(logrus.WarnLevel, msg, callerSkip)
}

// Warnf logs a formatted warning
func Warnf(format string, args ...interface{}) {
	logger.entry().logAt(logrus.WarnLevel, fmt.Sprintf(format, args...), callerSkip)
}

// Error logs an error message
func Error(msg string) {
	logger.entry().logAt(logrus.ErrorLevel, msg, callerSkip)
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	logger.entry().logAt(logrus.ErrorLevel, fmt.Sprintf(format, args...), callerSkip)
}

// LogWithFields returns an entry on the package-level logger
func LogWithFields(fields ...Field) *Entry {
	return logger.With(fields...)
}

// LogWithError returns an entry on the package-level logger with err
// expanded into fields
func LogWithError(err error) *Entry {
	return logger.With(errorFields(err)...)
}

// LogError logs err at error level with msg
func LogError(err error, msg string) {
	logger.With(errorFields(err)...).Error(msg)
}

// errorFields flattens an error into log fields. Typed application errors
// contribute their kind and the value that identifies them.
func errorFields(err error) []Field {
	if err == nil {
		return []Field{F("error", "<nil>")}
	}
	fields := []Field{F("error", err.Error()), F("error_kind", int(errors.KindOf(err)))}

	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		fields = append(fields, F("path", fileErr.Path()))
	}
	var configErr *errors.ConfigError
	if errors.As(err, &configErr) && configErr.Param() != "" {
		fields = append(fields, F("param", configErr.Param()))
	}
	var uploadErr *errors.UploadError
	if errors.As(err, &uploadErr) && uploadErr.Stage() != "" {
		fields = append(fields, F("stage", uploadErr.Stage()))
	}
	var validationErr *errors.ValidationError
	if errors.As(err, &validationErr) && validationErr.Field() != "" {
		fields = append(fields, F("field", validationErr.Field()))
	}
	return fields
}

type ctxKey struct{}

// NewContext returns a context carrying fields that WithContext picks up
func NewContext(ctx context.Context, fields ...Field) context.Context {
	existing := FromContext(ctx)
	all := make([]Field, 0, len(existing)+len(fields))
	all = append(all, existing...)
	all = append(all, fields...)
	return context.WithValue(ctx, ctxKey{}, all)
}

// FromContext returns the fields stored in ctx
func FromContext(ctx context.Context) []Field {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(ctxKey{}).([]Field)
	return fields
}
