package logging

import (
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileAppender writes the same lines as a ConsoleAppender to a log file that is rotated once it
// grows past MaxSizeMB, keeping MaxBackups compressed old files.
type FileAppender struct {
	ConsoleAppender
	file *lumberjack.Logger
}

const (
	// MaxSizeMB is the size at which log files are rotated.
	MaxSizeMB = 64
	// MaxBackups is the number of rotated log files kept.
	MaxBackups = 3
)

// NewFileAppender returns an appender writing to filename. The file and its directory are
// created on the first write.
func NewFileAppender(filename string) *FileAppender {
	file := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    MaxSizeMB,
		MaxBackups: MaxBackups,
		Compress:   true,
	}
	return &FileAppender{ConsoleAppender: NewWriterAppender(file), file: file}
}

// Close closes the current log file.
func (fa *FileAppender) Close() error {
	return fa.file.Close()
}
