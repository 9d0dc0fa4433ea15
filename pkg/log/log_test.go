package log

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestHelpersUsableWithoutInit(t *testing.T) {
	// 未经 NewLog 初始化时全局 helper 必须可安全调用
	Infow("noop", "k", "v")
	Warnw("noop")
	Errorf("noop %d", 1)
	if GetLogger() == nil {
		t.Fatal("expected a non-nil default sugared logger")
	}
}

func TestDefaultConf(t *testing.T) {
	conf := SetDefaults()

	if conf.Output != "stdout" {
		t.Errorf("expected output to be stdout, got %s", conf.Output)
	}

	if conf.Level != "INFO" {
		t.Errorf("expected level to be INFO, got %s", conf.Level)
	}

	if conf.KeepDays != 7 {
		t.Errorf("expected KeepDays to be 7, got %d", conf.KeepDays)
	}
}

func TestValidateFileOutput(t *testing.T) {
	conf := &Conf{Output: "file"}
	if err := conf.Validate(); err == nil {
		t.Error("expected error when path is empty for file output")
	}

	conf.Path = "/tmp/logs"
	if err := conf.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	// 缺省值兜底
	if conf.RotateSize != 100 || conf.RotateNum != 10 || conf.KeepDays != 7 {
		t.Errorf("expected defaults to be applied, got %+v", conf)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		" warn ":  zapcore.WarnLevel,
		"WARNING": zapcore.WarnLevel,
		"Error":   zapcore.ErrorLevel,
		"FATAL":   zapcore.FatalLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLogStdout(t *testing.T) {
	conf := SetDefaults()
	l, err := NewLog(conf)
	if err != nil {
		t.Fatalf("NewLog failed: %v", err)
	}
	if l == nil {
		t.Fatal("expected logger instance")
	}
	if GetLogger() == nil {
		t.Fatal("expected global sugared logger to be set")
	}
}
