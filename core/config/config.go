package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrNotPointer is returned when Load receives something other than a pointer to a struct.
var ErrNotPointer = errors.New("config: target must be a non-nil pointer to a struct")

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> parsed struct value
)

// Load populates cfg from the environment. A .env file in the working
// directory is read once per process; variables already set take precedence.
// Each struct type is parsed once and served from cache afterwards.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNotPointer
	}

	t := reflect.TypeOf(*cfg)
	if t.Kind() != reflect.Struct {
		return ErrNotPointer
	}

	if cached, ok := cache.Load(t); ok {
		*cfg = cached.(T)
		return nil
	}

	dotenvOnce.Do(func() {
		// A missing .env file is normal in production.
		_ = godotenv.Load()
	})

	var loaded T
	if err := env.Parse(&loaded); err != nil {
		return fmt.Errorf("config: parse %s: %w", t.Name(), err)
	}

	actual, _ := cache.LoadOrStore(t, loaded)
	*cfg = actual.(T)
	return nil
}

// MustLoad is like Load but panics on error. Intended for startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Parse populates cfg from the environment without consulting or filling the cache.
func Parse[T any](cfg *T) error {
	if cfg == nil {
		return ErrNotPointer
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse: %w", err)
	}
	return nil
}

// Reset clears the cache. Tests use it to reload changed environments.
func Reset() {
	cache.Range(func(k, _ any) bool {
		cache.Delete(k)
		return true
	})
}
