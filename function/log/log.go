package log

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

var debugLogger = newDebugLogger()

func newDebugLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return l
}

// SetDebugMode toggles the output of Debug messages.
func SetDebugMode(enabled bool) {
	if enabled {
		debugLogger.SetLevel(logrus.DebugLevel)
		return
	}
	debugLogger.SetLevel(logrus.InfoLevel)
}

func IsDebugMode() bool {
	return debugLogger.IsLevelEnabled(logrus.DebugLevel)
}

func Debug(format string, elem ...any) {
	debugLogger.Debugf(format, elem...)
}

func Fatal(args ...interface{}) {
	var message string

	switch len(args) {
	case 0:
		message = "fatal error occurred"
	case 1:
		switch v := args[0].(type) {
		case error:
			message = v.Error()
		case string:
			message = v
		default:
			message = fmt.Sprintf("%v", v)
		}
	default:
		// first string argument is the format
		if format, ok := args[0].(string); ok {
			message = fmt.Sprintf(format, args[1:]...)
		} else {
			message = fmt.Sprint(args...)
		}
	}

	lines := strings.Split(strings.TrimSpace(message), "\n")
	for _, line := range lines {
		fmt.Fprintln(os.Stderr, color.RedString("[x] ")+line)
	}
	os.Exit(1)
}

func Error(str string, elem ...any) {
	fmt.Fprintln(os.Stderr, color.RedString("[x] ")+fmt.Sprintf(str, elem...))
}

func Warning(format string, elem ...any) {
	fmt.Fprintln(os.Stderr, color.YellowString("[!] ")+color.YellowString(format, elem...))
}

func Info(format string, elem ...any) {
	fmt.Println(color.BlueString("[x] ") + fmt.Sprintf(format, elem...))
}

func InfoH2(format string, elem ...any) {
	fmt.Println(color.GreenString("  [x] ") + fmt.Sprintf(format, elem...))
}

// SuccessWrite reports a written output file.
func SuccessWrite(what string, path string) {
	Info("%s written to %s", what, color.New(color.Bold).Sprint(path))
}
