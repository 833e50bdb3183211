package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

type testConfig struct {
	Root string `env:"CMD_TEST_ROOT" envDefault:"/home/steve/.minecraft"`
	Lang string `env:"CMD_TEST_LANG" envDefault:"en-US"`
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("CMD_TEST_ROOT", "/env/root")
	t.Setenv("CMD_TEST_LANG", "ru-RU")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfgRef := testConfig{}
	if err := ParseConfig(&cfgRef); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs.StringVar(&cfgRef.Root, "path", cfgRef.Root, "root")
	fs.StringVar(&cfgRef.Lang, "lang", cfgRef.Lang, "lang")

	if err := ParseArgs(fs, []string{"-path", "/flag/root"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfgRef.Root != "/flag/root" {
		t.Fatalf("expected flag value for root, got %q", cfgRef.Root)
	}
	if cfgRef.Lang != "ru-RU" {
		t.Fatalf("expected env lang, got %q", cfgRef.Lang)
	}
}

func TestParseConfigRejectsNilTarget(t *testing.T) {
	if err := ParseConfig[testConfig](nil); err == nil {
		t.Fatal("expected nil target error")
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceSavegraft, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}

func TestRunWithTelemetryReturnsRunError(t *testing.T) {
	t.Setenv("SAVEGRAFT_OTEL_ENDPOINT", "")
	want := errors.New("graft failed")

	err := RunWithTelemetry(context.Background(), ServiceSavegraft, func(context.Context) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("expected run error, got %v", err)
	}
}
