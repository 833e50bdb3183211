package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedHasExpectedLocales(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	if !bundle.HasLocale(BaseLocale) {
		t.Fatalf("expected base locale %s", BaseLocale)
	}
	if !bundle.HasLocale("ru-RU") {
		t.Fatalf("expected locale ru-RU")
	}
	if got := len(bundle.NamespaceMessages("en-US", "cli")); got == 0 {
		t.Fatalf("expected en-US cli namespace messages")
	}
	if got := len(bundle.NamespaceMessages("ru-RU", "errors")); got == 0 {
		t.Fatalf("expected ru-RU errors namespace messages")
	}
}

func TestEmbeddedLocalesDefineSameKeys(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	base := bundle.LocaleMessages(BaseLocale)
	for _, locale := range bundle.Locales() {
		messages := bundle.LocaleMessages(locale)
		for key := range base {
			if _, ok := messages[key]; !ok {
				t.Fatalf("locale %s is missing key %q", locale, key)
			}
		}
		if len(messages) != len(base) {
			t.Fatalf("locale %s has %d keys, want %d", locale, len(messages), len(base))
		}
	}
}

func TestLoadFromFSRejectsDuplicateKeysAcrossNamespaces(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/cli.yaml"), `locale: "en-US"
namespace: "cli"
messages:
  "a.key": "a"
`)
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/errors.yaml"), `locale: "en-US"
namespace: "errors"
messages:
  "a.key": "b"
`)

	_, err := LoadFromFS(os.DirFS(tempDir))
	if err == nil {
		t.Fatal("expected duplicate key error")
	}
}

func TestLoadFromFSRequiresBaseLocale(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/ru-RU/cli.yaml"), `locale: "ru-RU"
namespace: "cli"
messages:
  "a.key": "a"
`)

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected missing base locale error")
	}
}

func TestLoadFromFSRejectsNamespaceMismatch(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/cli.yaml"), `locale: "en-US"
namespace: "errors"
messages:
  "a.key": "a"
`)

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected namespace mismatch error")
	}
}

func TestNamespaceMessagesWithFallback(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	resolved, messages := bundle.NamespaceMessagesWithFallback("fr-FR", "errors")
	if resolved != "en-US" {
		t.Fatalf("resolved locale = %q, want en-US", resolved)
	}
	if len(messages) == 0 {
		t.Fatal("expected fallback errors namespace messages")
	}
}

func TestResolveLocale(t *testing.T) {
	bundle := Default()
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "en-US"},
		{in: "ru", want: "ru-RU"},
		{in: "ru_RU.UTF-8", want: "ru-RU"},
		{in: "en_GB", want: "en-US"},
		{in: "ja-JP", want: "en-US"},
		{in: "not a locale", want: "en-US"},
	}
	for _, tt := range tests {
		if got := bundle.ResolveLocale(tt.in); got != tt.want {
			t.Fatalf("ResolveLocale(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrinterUsesRegisteredMessages(t *testing.T) {
	p := Default().Printer("ru")
	if got, want := p.Sprintf("cli.prompt.bye"), "До свидания"; got != want {
		t.Fatalf("Sprintf = %q, want %q", got, want)
	}
	p = Default().Printer("en-US")
	if got, want := p.Sprintf("cli.worlds.header", "/saves"), "Worlds in /saves:"; got != want {
		t.Fatalf("Sprintf = %q, want %q", got, want)
	}
}

func mustWriteFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
