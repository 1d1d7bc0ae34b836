package layercfg

import "sync"

var (
	defaultMu  sync.Mutex
	defaultCfg Func
)

// Default returns the process-wide Func, building it on first use from
// DefaultResources with the default cache. A failed build is not remembered,
// so the next call retries.
func Default() (Func, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultCfg != nil {
		return defaultCfg, nil
	}

	cfg, err := NewBuilder().Build()
	if err != nil {
		return nil, err
	}
	defaultCfg = cfg
	return cfg, nil
}

// SetDefault replaces the process-wide Func returned by Default.
func SetDefault(cfg Func) {
	defaultMu.Lock()
	defaultCfg = cfg
	defaultMu.Unlock()
}

// ResetDefault drops the process-wide Func; the next Default call rebuilds it.
func ResetDefault() {
	SetDefault(nil)
}
