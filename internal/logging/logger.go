package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger = logrus.New()
var once sync.Once

// Init configures the shared logger once: leveled text output to stdout,
// mirrored to a size-rotated file under dir when dir is non-empty.
func Init(dir, level string) {
	once.Do(func() {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			lvl = logrus.InfoLevel
		}
		Logger.SetLevel(lvl)
		Logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})

		out := io.Writer(os.Stdout)
		if dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				Logger.WithError(err).Warn("log directory unavailable, logging to stdout only")
			} else {
				rotated := &lumberjack.Logger{
					Filename:   filepath.Join(dir, "priority-matrix.log"),
					MaxSize:    10, // megabytes
					MaxBackups: 3,
					MaxAge:     28,
					Compress:   true,
				}
				out = io.MultiWriter(os.Stdout, rotated)
			}
		}
		Logger.SetOutput(out)
	})
}
