// Package logging provides structured JSONL logging for algolearn.
// Writes to {stateDir}/algolearn.log at configurable debug levels.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the log file created inside the state directory
const FileName = "algolearn.log"

// Logger writes structured log entries to the log file.
// Level 0 is a no-op, 1 logs info and above, 2+ adds debug entries (3 also records callers).
type Logger struct {
	sugar *zap.SugaredLogger
	file  *os.File
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// New creates a Logger appending to {stateDir}/algolearn.log. If the file
// cannot be opened, logging silently degrades to a no-op.
func New(stateDir string, debugLevel int) *Logger {
	if debugLevel < 1 {
		return Nop()
	}

	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return Nop()
	}
	f, err := os.OpenFile(filepath.Join(stateDir, FileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return Nop()
	}

	level := zapcore.InfoLevel
	if debugLevel >= 2 {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.MessageKey = "event"
	encCfg.EncodeTime = zapcore.RFC3339TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), level)

	var opts []zap.Option
	if debugLevel >= 3 {
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(1))
	}

	return &Logger{sugar: zap.New(core, opts...).Sugar(), file: f}
}

// Close flushes and closes the underlying file
func (l *Logger) Close() error {
	_ = l.sugar.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// With returns a child logger carrying the given key/value pairs
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...), file: l.file}
}

// Printf logs a preformatted debug line. It lets the logger stand in for
// libraries that expect a Printf-style writer.
func (l *Logger) Printf(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

func (l *Logger) Debug(event string, keysAndValues ...interface{}) {
	l.sugar.Debugw(event, keysAndValues...)
}

func (l *Logger) Info(event string, keysAndValues ...interface{}) {
	l.sugar.Infow(event, keysAndValues...)
}

func (l *Logger) Warn(event string, keysAndValues ...interface{}) {
	l.sugar.Warnw(event, keysAndValues...)
}

func (l *Logger) Error(event string, keysAndValues ...interface{}) {
	l.sugar.Errorw(event, keysAndValues...)
}

// LogCurriculumLoad logs which source a curriculum dataset came from.
// source: "file", "legacy" or "default"
func (l *Logger) LogCurriculumLoad(source, path string, curricula, modules, lessons int) {
	l.Info("curriculum_loaded",
		"source", source,
		"path", path,
		"curricula", curricula,
		"modules", modules,
		"lessons", lessons,
	)
}

// LogCurriculumSkip logs a candidate file that was passed over during load.
func (l *Logger) LogCurriculumSkip(path, reason string) {
	l.Warn("curriculum_source_skipped", "path", path, "reason", reason)
}

// LogSearch logs a completed search.
func (l *Logger) LogSearch(query string, results int, elapsedMs int64, cacheHit bool) {
	l.Info("search_executed",
		"query", query,
		"results", results,
		"elapsed_ms", elapsedMs,
		"cache_hit", cacheHit,
	)
}

// LogNoteChange logs a note mutation. action: "added", "updated" or "deleted"
func (l *Logger) LogNoteChange(action, noteID string) {
	l.Info("note_changed", "action", action, "note_id", noteID)
}

// LogProgressChange logs a lesson progress transition.
func (l *Logger) LogProgressChange(user, lessonID, status string) {
	l.Info("progress_changed", "user", user, "lesson_id", lessonID, "status", status)
}
