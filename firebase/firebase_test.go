package firebase

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSanitizeFilenameNormal(t *testing.T) {
	result := sanitizeFilename("image_test-file.jpg")
	if result != "image_test-file.jpg" {
		t.Errorf("expected 'image_test-file.jpg', got '%s'", result)
	}
}

func TestSanitizeFilenameSpecialChars(t *testing.T) {
	result := sanitizeFilename("tacos poulet (1)@#$.jpg")
	if strings.ContainsAny(result, " ()@#$") {
		t.Errorf("special chars not replaced: '%s'", result)
	}
}

func TestSanitizeFilenamePathTraversal(t *testing.T) {
	result := sanitizeFilename("../../etc/passwd")
	if strings.Contains(result, "/") {
		t.Errorf("path separators not replaced: '%s'", result)
	}
}

func TestSanitizeFilenameTooLong(t *testing.T) {
	result := sanitizeFilename(strings.Repeat("a", 200))
	if len(result) != 100 {
		t.Errorf("expected length 100, got %d", len(result))
	}
}

func TestSanitizeFilenameEmpty(t *testing.T) {
	if result := sanitizeFilename(""); result != "file" {
		t.Errorf("expected 'file', got '%s'", result)
	}
}

func TestSanitizeFilenameDots(t *testing.T) {
	if sanitizeFilename(".") != "file" {
		t.Error("single dot should become 'file'")
	}
	if sanitizeFilename("..") != "file" {
		t.Error("double dots should become 'file'")
	}
}

func TestObjectPathKnownFolder(t *testing.T) {
	now := time.Unix(1700000000, 0)
	path := objectPath("products", "tacos.jpg", now)

	pattern := regexp.MustCompile(`^products/1700000000_[0-9a-f-]{8}_tacos\.jpg$`)
	if !pattern.MatchString(path) {
		t.Errorf("unexpected object path %q", path)
	}
}

func TestObjectPathUnknownFolder(t *testing.T) {
	path := objectPath("../secrets", "a.png", time.Unix(1, 0))
	if !strings.HasPrefix(path, DefaultFolder+"/") {
		t.Errorf("expected default folder, got %q", path)
	}
}

func TestPublicURL(t *testing.T) {
	got := publicURL("elbasta.appspot.com", "products/a.jpg")
	if got != "https://storage.googleapis.com/elbasta.appspot.com/products/a.jpg" {
		t.Errorf("unexpected url %q", got)
	}
}

func TestClientOptions(t *testing.T) {
	logger := zap.NewNop()
	if opts := clientOptions("", logger); len(opts) != 0 {
		t.Errorf("expected no options without credentials, got %d", len(opts))
	}
	if opts := clientOptions(`{"type":"service_account"}`, logger); len(opts) != 1 {
		t.Errorf("expected JSON credentials option, got %d", len(opts))
	}
	if opts := clientOptions("/etc/elbasta/sa.json", logger); len(opts) != 1 {
		t.Errorf("expected file credentials option, got %d", len(opts))
	}
}

func TestStorageRequiresBucket(t *testing.T) {
	app := &App{logger: zap.NewNop()}
	if _, err := app.Storage(); err == nil {
		t.Error("expected error without bucket")
	}
}
