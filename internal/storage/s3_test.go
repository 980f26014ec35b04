package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestNewWithoutConfig(t *testing.T) {
	tests := []struct {
		name                     string
		endpoint, access, secret string
	}{
		{name: "no endpoint", access: "a", secret: "s"},
		{name: "no access key", endpoint: "https://s3.example.com", secret: "s"},
		{name: "no secret", endpoint: "https://s3.example.com", access: "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.endpoint, "us-east-1", tt.access, tt.secret, "exports", "")
			if c != nil || err != nil {
				t.Errorf("New() = %v, %v, want nil, nil", c, err)
			}
		})
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New("https://s3.example.com", "us-east-1", "a", "s", "", ""); err == nil {
		t.Error("New() accepted an empty bucket")
	}
}

func TestFileURL(t *testing.T) {
	c, err := New("https://s3.example.com/", "us-east-1", "a", "s", "exports", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got, want := c.FileURL("exports/x.csv"), "https://s3.example.com/exports/exports/x.csv"; got != want {
		t.Errorf("FileURL() = %q, want %q", got, want)
	}

	c, _ = New("https://s3.example.com", "us-east-1", "a", "s", "exports", "https://cdn.example.com/")
	if got, want := c.FileURL("exports/x.csv"), "https://cdn.example.com/exports/x.csv"; got != want {
		t.Errorf("FileURL() with public URL = %q, want %q", got, want)
	}
}

func TestPresignedURL(t *testing.T) {
	c, err := New("https://s3.example.com", "eu-central-1", "AKIATEST", "secret", "exports", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	raw, err := c.PresignedURL(context.Background(), "exports/a.csv", 15*time.Minute)
	if err != nil {
		t.Fatalf("PresignedURL: %v", err)
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	if u.Host != "s3.example.com" || u.Path != "/exports/exports/a.csv" {
		t.Errorf("presigned URL = %q, want path-style on the endpoint", raw)
	}
	q := u.Query()
	if q.Get("X-Amz-Expires") != "900" {
		t.Errorf("X-Amz-Expires = %q, want 900", q.Get("X-Amz-Expires"))
	}
	if !strings.HasPrefix(q.Get("X-Amz-Credential"), "AKIATEST/") {
		t.Errorf("X-Amz-Credential = %q", q.Get("X-Amz-Credential"))
	}
}

func TestExportKeys(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	key := NewExportKey(at)
	if !strings.HasPrefix(key, "exports/20260304T050607Z-") || !strings.HasSuffix(key, ".csv") {
		t.Errorf("NewExportKey() = %q", key)
	}
	if key == NewExportKey(at) {
		t.Error("NewExportKey() returned the same key twice")
	}
	if !ValidExportKey(key) {
		t.Errorf("ValidExportKey(%q) = false", key)
	}

	for _, bad := range []string{"", "exports/.csv", "other/a.csv", "exports/../secret.csv", "exports/a.txt"} {
		if ValidExportKey(bad) {
			t.Errorf("ValidExportKey(%q) = true", bad)
		}
	}
}
