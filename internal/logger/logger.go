package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Logger пишет сообщения трёх уровней в stdout/stderr и, если задан каталог, в файлы.
type Logger struct {
	infoLog    *log.Logger
	warningLog *log.Logger
	errorLog   *log.Logger
	files      []io.Closer
	mu         sync.Mutex
}

// New создаёт логгер. Пустой dir: только консоль.
func New(dir string) (*Logger, error) {
	if dir == "" {
		return newLogger(os.Stdout, os.Stdout, os.Stderr, nil), nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	var files []io.Closer
	open := func(name string) (*os.File, error) {
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			for _, c := range files {
				c.Close()
			}
			return nil, fmt.Errorf("open log file %s: %w", name, err)
		}
		files = append(files, f)
		return f, nil
	}

	infoFile, err := open("info.log")
	if err != nil {
		return nil, err
	}
	warningFile, err := open("warning.log")
	if err != nil {
		return nil, err
	}
	errorFile, err := open("error.log")
	if err != nil {
		return nil, err
	}

	return newLogger(
		io.MultiWriter(os.Stdout, infoFile),
		io.MultiWriter(os.Stdout, warningFile),
		io.MultiWriter(os.Stderr, errorFile),
		files,
	), nil
}

// NewWriter пишет все уровни в w. Удобно в тестах.
func NewWriter(w io.Writer) *Logger {
	return newLogger(w, w, w, nil)
}

// Discard логгер, который ничего не пишет.
func Discard() *Logger {
	return NewWriter(io.Discard)
}

func newLogger(info, warning, errw io.Writer, files []io.Closer) *Logger {
	return &Logger{
		infoLog:    log.New(info, "ℹ️  INFO    ", log.Ldate|log.Ltime),
		warningLog: log.New(warning, "⚠️  WARNING ", log.Ldate|log.Ltime),
		errorLog:   log.New(errw, "❌ ERROR   ", log.Ldate|log.Ltime),
		files:      files,
	}
}

// Info пишет информационное сообщение.
func (l *Logger) Info(format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infoLog.Printf(format, v...)
}

// Warning пишет предупреждение.
func (l *Logger) Warning(format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warningLog.Printf(format, v...)
}

// Error пишет ошибку.
func (l *Logger) Error(format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorLog.Printf(format, v...)
}

// Close закрывает файлы журналов.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var firstErr error
	for _, f := range l.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.files = nil
	return firstErr
}
