// Package fxlayercfg wires layercfg into Fx applications.
package fxlayercfg

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lixenwraith/layercfg"

	"go.uber.org/fx"
)

// ErrNilBuilder is returned when NewModule is given no builder.
var ErrNilBuilder = errors.New("layercfg builder is nil")

// Validator is implemented by sections that can check themselves after scanning.
type Validator interface {
	Validate() error
}

// Defaulter is implemented by sections that fill in unset fields after scanning.
type Defaulter interface {
	SetDefaults() (changed bool)
}

type moduleParams struct {
	fx.In

	Logger *slog.Logger `optional:"true"`
}

// NewModule creates an Fx module that provides the layercfg.Func built by b.
// A *slog.Logger in the container, if any, receives the config warnings.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func NewModule(b *layercfg.Builder) fx.Option {
	if b == nil {
		return fx.Error(ErrNilBuilder)
	}

	return fx.Module("layercfg",
		fx.Provide(func(p moduleParams) (layercfg.Func, error) {
			if p.Logger != nil {
				b.WithLogger(p.Logger)
			}

			cfg, err := b.Build()
			if err != nil {
				return nil, fmt.Errorf("building config: %w", err)
			}
			return cfg, nil
		}),
	)
}

// Section provides a *T scanned from the config section at path.
// Defaults are applied and validation runs when *T implements Defaulter or Validator.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func Section[T any](path ...string) fx.Option {
	return fx.Provide(func(cfg layercfg.Func) (*T, error) {
		target := new(T)
		name := strings.Join(path, ".")

		if err := cfg.Scan(target, path...); err != nil {
			return nil, fmt.Errorf("scanning section %q: %w", name, err)
		}

		if d, ok := any(target).(Defaulter); ok {
			if d.SetDefaults() {
				slog.Info("defaults applied", slog.String("path", name))
			}
		}

		if v, ok := any(target).(Validator); ok {
			if err := v.Validate(); err != nil {
				return nil, fmt.Errorf("validating section %q: %w", name, err)
			}
		}

		return target, nil
	})
}
