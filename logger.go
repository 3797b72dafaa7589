package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Logger prints ordinary lines and keeps a block of per-key status lines
// redrawn at the bottom of the terminal.
type Logger struct {
	out             io.Writer
	persistentLines map[string]string
	orderedKeys     []string
	lastUpdateLines int
	mu              sync.Mutex
}

func NewLogger() *Logger {
	return NewLoggerTo(os.Stdout)
}

func NewLoggerTo(out io.Writer) *Logger {
	return &Logger{
		out:             out,
		persistentLines: make(map[string]string),
	}
}

func (l *Logger) ansiMoveUp() {
	fmt.Fprint(l.out, "\033[1A")
}

func (l *Logger) ansiClearLine() {
	fmt.Fprint(l.out, "\033[2K\r")
}

func (l *Logger) ansiCleanUp(n int) {
	for i := 0; i < n; i++ {
		l.ansiMoveUp()
		l.ansiClearLine()
	}
}

// AddLine sets the status line for key, adding it at the end if new.
func (l *Logger) AddLine(key, value string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.persistentLines[key]; !exists {
		l.orderedKeys = append(l.orderedKeys, key)
	}
	l.persistentLines[key] = value

	l.updateDisplay()
}

func (l *Logger) GetLine(key string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.persistentLines[key]
}

func (l *Logger) RemoveLine(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.persistentLines, key)
	for i, k := range l.orderedKeys {
		if k == key {
			l.orderedKeys = append(l.orderedKeys[:i], l.orderedKeys[i+1:]...)
			break
		}
	}

	l.updateDisplay()
}

func (l *Logger) Printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.clearStatus()
	fmt.Fprintf(l.out, format, args...)
	l.updateDisplay()
}

func (l *Logger) Println(args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.clearStatus()
	fmt.Fprintln(l.out, args...)
	l.updateDisplay()
}

func (l *Logger) clearStatus() {
	if l.lastUpdateLines > 0 {
		l.ansiCleanUp(l.lastUpdateLines)
	}
	l.lastUpdateLines = 0
}

func (l *Logger) updateDisplay() {
	l.clearStatus()
	for _, key := range l.orderedKeys {
		fmt.Fprintln(l.out, l.persistentLines[key])
	}
	l.lastUpdateLines = len(l.orderedKeys)
}

func (l *Logger) ClearAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.persistentLines = make(map[string]string)
	l.orderedKeys = nil
	l.lastUpdateLines = 0
}

// ProgressBar renders current/total as a fixed width bar.
func ProgressBar(current, total int) string {
	const width = 20
	filled := 0
	if total > 0 {
		filled = current * width / total
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(" ", width-filled) + "]"
}
