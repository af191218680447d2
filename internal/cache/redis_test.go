package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestOptions_WithDefaults(t *testing.T) {
	t.Parallel()

	def := DefaultOptions()

	tests := []struct {
		name string
		in   Options
		want Options
	}{
		{"zero value", Options{}, def},
		{"explicit values kept", Options{PoolSize: 50, MinIdleConns: 5, OpTimeout: time.Second}, Options{PoolSize: 50, MinIdleConns: 5, OpTimeout: time.Second}},
		{"idle clamped to pool", Options{PoolSize: 1, MinIdleConns: 4}, Options{PoolSize: 1, MinIdleConns: 1, OpTimeout: def.OpTimeout}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.in.withDefaults(); got != tt.want {
				t.Errorf("withDefaults() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestApplyOptions(t *testing.T) {
	t.Parallel()

	opt := &redis.Options{}
	applyOptions(opt, Options{PoolSize: 7, MinIdleConns: 3, OpTimeout: 100 * time.Millisecond})

	if opt.PoolSize != 7 || opt.MinIdleConns != 3 {
		t.Errorf("pool sizing not applied: %+v", opt)
	}
	if opt.ReadTimeout != 100*time.Millisecond || opt.WriteTimeout != 100*time.Millisecond {
		t.Errorf("op timeouts not applied: read=%v write=%v", opt.ReadTimeout, opt.WriteTimeout)
	}
	if opt.PoolTimeout != 200*time.Millisecond {
		t.Errorf("PoolTimeout = %v, want 200ms", opt.PoolTimeout)
	}
}

func TestOpen_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), "not-a-url", Options{}); err == nil || !strings.Contains(err.Error(), "parse Redis URL") {
		t.Errorf("expected parse error, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := Open(ctx, "redis://127.0.0.1:1/0", Options{}); err == nil || !strings.Contains(err.Error(), "ping Redis") {
		t.Errorf("expected ping error, got %v", err)
	}
}
