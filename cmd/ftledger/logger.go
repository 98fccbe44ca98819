// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ava-labs/ftledger/config"
)

// logFactory writes every logger it makes to the console and, when a
// directory is configured, to a rotating file.
type logFactory struct {
	config logging.Config
	lock   sync.Mutex

	loggers map[string]logging.Logger
}

func newLogFactory(cfg *config.Config) *logFactory {
	loggingConfig := logging.Config{}
	loggingConfig.LogLevel = cfg.LogLevel
	loggingConfig.DisplayLevel = cfg.LogLevel
	loggingConfig.LogFormat = logging.Colors
	loggingConfig.Directory = cfg.LogDir
	loggingConfig.MaxSize = cfg.LogMaxSize
	loggingConfig.MaxFiles = cfg.LogMaxFiles
	loggingConfig.MaxAge = cfg.LogMaxAge
	loggingConfig.Compress = true
	return &logFactory{
		config:  loggingConfig,
		loggers: make(map[string]logging.Logger),
	}
}

func (f *logFactory) Make(name string) (logging.Logger, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if _, ok := f.loggers[name]; ok {
		return nil, fmt.Errorf("logger with name %q already exists", name)
	}

	consoleCore := logging.NewWrappedCore(f.config.DisplayLevel, os.Stderr, f.config.LogFormat.ConsoleEncoder())
	cores := []logging.WrappedCore{consoleCore}
	if len(f.config.Directory) > 0 {
		rw := &lumberjack.Logger{
			Filename:   filepath.Join(f.config.Directory, name+".log"),
			MaxSize:    f.config.MaxSize,  // megabytes
			MaxAge:     f.config.MaxAge,   // days
			MaxBackups: f.config.MaxFiles, // files
			Compress:   f.config.Compress,
		}
		cores = append(cores, logging.NewWrappedCore(f.config.LogLevel, rw, logging.JSON.FileEncoder()))
	}

	l := logging.NewLogger(f.config.LogFormat.WrapPrefix(name), cores...)
	f.loggers[name] = l
	return l, nil
}

func (f *logFactory) Close() {
	f.lock.Lock()
	defer f.lock.Unlock()

	for _, l := range f.loggers {
		l.Stop()
	}
	f.loggers = nil
}
