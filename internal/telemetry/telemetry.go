/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package telemetry provides a tiny opt‑in sender for analysis progress events
// and crash reports. It never blocks the caller: events go through a bounded
// queue and are dropped when it is full.
package telemetry

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"goscreenplay/internal/config"
	applog "goscreenplay/internal/log"
	"goscreenplay/internal/version"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrDropped is returned by Progress when the queue is full.
var ErrDropped = errors.New("telemetry queue full, event dropped")

// Config holds runtime configuration for progress events and crash uploads.
// Everything is strictly opt‑in and disabled by default.
//
// If no URLs are set, events are dropped (no‑ops), even if opt‑in is true.
type Config struct {
	OptIn        bool
	ProgressURL  string
	CrashURL     string
	Timeout      time.Duration
	DebugLogging bool
}

// FromConfig maps the telemetry section of the app config.
func FromConfig(c config.TelemetryConfig) Config {
	cfg := Config{
		OptIn:       c.OptIn,
		ProgressURL: strings.TrimSpace(c.ProgressURL),
		CrashURL:    strings.TrimSpace(c.CrashURL),
		Timeout:     time.Duration(c.TimeoutMs) * time.Millisecond,
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 1500 * time.Millisecond
	}
	return cfg
}

// FromEnv reads the GSP_* telemetry variables only. Used by the crash handler,
// which may run before the config file was loaded.
func FromEnv() Config {
	cfg := Config{
		OptIn:        parseBool(os.Getenv(config.EnvTelemetryOptIn)),
		ProgressURL:  strings.TrimSpace(os.Getenv(config.EnvProgressURL)),
		CrashURL:     strings.TrimSpace(os.Getenv(config.EnvCrashURL)),
		Timeout:      1500 * time.Millisecond,
		DebugLogging: os.Getenv("GSP_TELEMETRY_DEBUG") != "",
	}
	if ms := strings.TrimSpace(os.Getenv(config.EnvTelemetryTimeout)); ms != "" {
		if v, err := time.ParseDuration(ms + "ms"); err == nil {
			cfg.Timeout = v
		}
	}
	return cfg
}

func parseBool(v string) bool {
	s := strings.ToLower(strings.TrimSpace(v))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// Client is a minimal async sender; it drops events silently on errors.
type Client struct {
	cfg    Config
	log    *slog.Logger
	cli    *http.Client
	run    string
	q      chan any
	once   sync.Once
	closed chan struct{}
}

var defaultClient *Client
var defaultOnce sync.Once

// InitDefault initializes the package‑level default client from env when first used.
func InitDefault() {
	defaultOnce.Do(func() {
		if defaultClient == nil {
			NewDefault(FromEnv())
		}
	})
}

// NewDefault creates and installs the default client with cfg.
func NewDefault(cfg Config) {
	defaultClient = New(cfg)
}

// New constructs a client. Every client carries a random run id so the
// progress events of one analysis can be grouped.
func New(cfg Config) *Client {
	c := &Client{
		cfg:    cfg,
		log:    applog.WithComponent("telemetry"),
		cli:    &http.Client{Timeout: cfg.Timeout},
		run:    uuid.NewString(),
		q:      make(chan any, 64),
		closed: make(chan struct{}),
	}
	go c.loop()
	return c
}

// Enabled reports whether progress events are enabled and an endpoint is configured.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.ProgressURL != "" }

// Enabled reports whether progress events are enabled using the default client.
func Enabled() bool {
	InitDefault()
	return defaultClient.Enabled()
}

// RunID identifies the events of this client.
func (c *Client) RunID() string { return c.run }

// Event queues a small JSON event if enabled. Props must not contain screenplay text.
func (c *Client) Event(name string, props map[string]any) error {
	if !c.Enabled() || name == "" {
		return nil
	}
	payload := map[string]any{
		"name":    name,
		"run":     c.run,
		"ts":      time.Now().UTC().Format(time.RFC3339Nano),
		"version": version.String(),
		"os":      runtime.GOOS,
		"arch":    runtime.GOARCH,
	}
	for k, v := range props {
		payload[k] = v
	}
	select {
	case c.q <- payload:
		return nil
	default:
		return ErrDropped
	}
}

// Progress has the signature of an analysis progress sink.
func (c *Client) Progress(_ context.Context, percent int, message string) error {
	return c.Event("progress", map[string]any{"percent": percent, "message": message})
}

// Flush waits briefly for the queue to drain.
func (c *Client) Flush(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	deadline := time.Now().Add(500 * time.Millisecond)
	for {
		if len(c.q) == 0 || time.Now().After(deadline) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(25 * time.Millisecond):
		}
	}
}

// Close stops background goroutine.
func (c *Client) Close() { c.once.Do(func() { close(c.closed) }) }

func (c *Client) loop() {
	for {
		select {
		case <-c.closed:
			return
		case item := <-c.q:
			c.send(item)
		}
	}
}

func (c *Client) send(item any) {
	buf, err := json.Marshal(item)
	if err != nil {
		return
	}
	req, err := http.NewRequest(http.MethodPost, c.cfg.ProgressURL, bytes.NewReader(buf))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.cli.Do(req)
	if err != nil {
		if c.cfg.DebugLogging {
			c.log.Debug("telemetry send failed", slog.Any("err", err))
		}
		return
	}
	_ = resp.Body.Close()
	if c.cfg.DebugLogging {
		c.log.Debug("telemetry event sent")
	}
}

// UploadCrash posts an already‑serialized crash report to the configured crash URL if opt‑in.
func (c *Client) UploadCrash(report []byte) {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return
	}
	go func(b []byte) {
		req, err := http.NewRequest(http.MethodPost, c.cfg.CrashURL, bytes.NewReader(b))
		if err != nil {
			return
		}
		req.Header.Set("Content-Type", "text/plain; charset=utf-8")
		resp, err := c.cli.Do(req)
		if err != nil {
			if c.cfg.DebugLogging {
				c.log.Debug("crash upload failed", slog.Any("err", err))
			}
			return
		}
		_ = resp.Body.Close()
		if c.cfg.DebugLogging {
			c.log.Debug("crash report uploaded")
		}
	}(append([]byte(nil), report...))
}

// UploadCrash using default client.
func UploadCrash(report []byte) { InitDefault(); defaultClient.UploadCrash(report) }
