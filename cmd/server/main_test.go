package main

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestRunReturnsListenError(t *testing.T) {
	origListen := listenAndServe
	t.Cleanup(func() { listenAndServe = origListen })

	listenAndServe = func(addr string, handler http.Handler) error {
		if handler == nil {
			t.Fatalf("expected handler")
		}
		if addr != ":9090" {
			t.Fatalf("expected addr :9090, got %s", addr)
		}
		return errors.New("boom")
	}

	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	if err := run(context.TODO()); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom error, got %v", err)
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	if err := run(context.Background()); err == nil {
		t.Fatal("expected config error")
	}
}

func TestRunWithEventMirror(t *testing.T) {
	origListen := listenAndServe
	t.Cleanup(func() { listenAndServe = origListen })

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	listenAndServe = func(addr string, handler http.Handler) error {
		if addr != ":8080" {
			t.Fatalf("expected default port, got %s", addr)
		}
		if handler == nil {
			t.Fatalf("handler nil")
		}
		return nil
	}

	t.Setenv("PORT", "")
	t.Setenv("REDIS_ADDR", mr.Addr())
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	if err := run(context.Background()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestMainHandlesError(t *testing.T) {
	origListen := listenAndServe
	origExit := exitFunc
	t.Cleanup(func() {
		listenAndServe = origListen
		exitFunc = origExit
	})

	listenAndServe = func(string, http.Handler) error { return errors.New("main boom") }
	var got error
	exitFunc = func(err error) { got = err }

	t.Setenv("PORT", "9092")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	main()

	if got == nil || got.Error() != "main boom" {
		t.Fatalf("expected exitFunc to capture error, got %v", got)
	}
}

func TestDefaultExit(t *testing.T) {
	origExit := exit
	origWriter := log.Writer()
	t.Cleanup(func() {
		exit = origExit
		log.SetOutput(origWriter)
	})

	var gotCode int
	exit = func(code int) { gotCode = code }
	var buf bytes.Buffer
	log.SetOutput(&buf)

	defaultExit(errors.New("boom"))
	if gotCode != 1 {
		t.Fatalf("expected exit code 1, got %d", gotCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("boom")) {
		t.Fatalf("expected log to contain boom, got %q", buf.String())
	}
}
