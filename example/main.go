// FILE: lixenwraith/layercfg/example/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/lixenwraith/layercfg"
)

// AppConfig is scanned from the merged tree.
type AppConfig struct {
	Server struct {
		Host     string        `toml:"host"`
		Port     int64         `toml:"port"`
		LogLevel string        `toml:"log_level"`
		Timeout  time.Duration `toml:"timeout"`
	} `toml:"server"`
	FeatureFlags map[string]bool `toml:"feature_flags"`
}

const baseConfig = `
[server]
host = "localhost"
port = 8080
log_level = "info"
timeout = "5s"

[feature_flags]
enable_metrics = true
enable_tracing = false
`

const localConfig = `
server:
  log_level: debug
feature_flags:
  enable_tracing: true
`

func main() {
	// =========================================================================
	// PART 1: INITIAL SETUP
	// Two resources: a shared base.toml and a developer-local override.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 1: Writing configuration resources...")

	dir, err := os.MkdirTemp("", "layercfg-example")
	if err != nil {
		log.Fatalf("❌ Failed to create temp dir: %v", err)
	}
	defer func() {
		log.Println("---")
		log.Println("🧹 Cleaning up...")
		os.RemoveAll(dir)
		os.Unsetenv("APP_SERVER_PORT")
	}()

	basePath := filepath.Join(dir, "base.toml")
	localPath := filepath.Join(dir, "local.yaml")
	mustWrite(basePath, baseConfig)
	mustWrite(localPath, localConfig)
	log.Printf("✅ Wrote %s and %s.", basePath, localPath)

	// =========================================================================
	// PART 2: BUILDING THE CONFIG FUNCTION
	// local.yaml wins over base.toml; APP_* variables win over both.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 2: Building with the Builder...")

	os.Setenv("APP_SERVER_PORT", "8888")
	log.Println("   (Set environment variable APP_SERVER_PORT=8888)")

	validator := func(cfg layercfg.Func) error {
		port, err := cfg.Int64("server", "port")
		if err != nil {
			return err
		}
		if port < 1024 || port > 65535 {
			return fmt.Errorf("port %d is outside the recommended range (1024-65535)", port)
		}
		return nil
	}

	target := &AppConfig{}
	cfg, err := layercfg.NewBuilder().
		WithResources(
			layercfg.File(filepath.Join(dir, "missing.json")).AsOptional(),
			layercfg.File(localPath),
			layercfg.File(basePath),
		).
		WithMiddleware(
			layercfg.EnvOverlay("APP_"), // inside the cache: read once per load
			layercfg.NewCache(),
		).
		WithValidator(validator).
		BuildAndScan(target)
	if err != nil {
		log.Fatalf("❌ Builder failed: %v", err)
	}

	log.Println("✅ Builder finished successfully.")
	printState(target, "Merged State (Env > local.yaml > base.toml)")

	// =========================================================================
	// PART 3: RELOADING
	// The cache holds the merged tree until it is cleared.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 3: Changing base.toml and reloading...")

	mustWrite(basePath, baseConfig+"\n[extra]\nregion = \"eu-west-1\"\n")

	region, _ := cfg.String("extra", "region")
	log.Printf("   Before clear: extra.region = %q (cached)", region)

	if c, _ := cfg(layercfg.MiddlewareOptionsKey, layercfg.CacheOptionKey); c != nil {
		c.(*layercfg.Cache).Clear()
	}
	region, _ = cfg.String("extra", "region")
	log.Printf("   After clear:  extra.region = %q", region)

	// =========================================================================
	// PART 4: OVERRIDES FOR TESTS
	// Overrides return a new Func; cfg itself is untouched.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 4: Scoped overrides...")

	testCfg := layercfg.OverrideMerge(cfg, []string{"feature_flags"}, map[string]any{"enable_metrics": false})
	testCfg = layercfg.Override(testCfg, []string{"server", "host"}, "test.internal")

	overridden := &AppConfig{}
	if err := testCfg.Scan(overridden); err != nil {
		log.Fatalf("❌ Scan failed: %v", err)
	}
	printState(overridden, "Overridden State")

	original := &AppConfig{}
	if err := cfg.Scan(original); err != nil {
		log.Fatalf("❌ Scan failed: %v", err)
	}
	printState(original, "Original State (unchanged)")

	// =========================================================================
	// PART 5: DUMP
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 5: Dumping the merged tree as YAML...")
	if err := cfg.Dump(os.Stdout, "yaml"); err != nil {
		log.Fatalf("❌ Dump failed: %v", err)
	}
}

func mustWrite(path, content string) {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		log.Fatalf("❌ Failed to write %s: %v", path, err)
	}
}

func printState(cfg *AppConfig, header string) {
	log.Println("   --- " + header + " ---")
	log.Printf("     Server Host:      %s", cfg.Server.Host)
	log.Printf("     Server Port:      %d", cfg.Server.Port)
	log.Printf("     Server Log Level: %s", cfg.Server.LogLevel)
	log.Printf("     Server Timeout:   %s", cfg.Server.Timeout)
	log.Printf("     Feature Flags:    %v", cfg.FeatureFlags)
}
