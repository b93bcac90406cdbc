package logsvc

import (
	"log"

	"github.com/highschool/scheduler/core"
)

// ConsoleLogger writes to the standard logger only; the DEV and test backend.
type ConsoleLogger struct {
	std *log.Logger
}

var _ core.Logger = (*ConsoleLogger)(nil)

func NewConsoleLogger(std *log.Logger) *ConsoleLogger {
	return &ConsoleLogger{std: std}
}

func (l ConsoleLogger) Enable(bool) {}

func (l ConsoleLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l ConsoleLogger) Debug(msg string, args ...interface{}) { l.print(msg, args) }
func (l ConsoleLogger) Info(msg string, args ...interface{})  { l.print(msg, args) }
func (l ConsoleLogger) Warn(msg string, args ...interface{})  { l.print(msg, args) }
func (l ConsoleLogger) Error(msg string, args ...interface{}) { l.print(msg, args) }

func (l ConsoleLogger) Fatal(msg string, args ...interface{}) {
	l.print(msg, args)
	l.std.Fatal(msg)
}
