package config

import (
	"context"
	"encoding/json"

	"companioncode-go/bus"
	"companioncode-go/errcode"
	"companioncode-go/types"

	"github.com/andreyvit/tinyjson"
)

// -----------------------------------------------------------------------------
// String constants (live in flash, not RAM)
// -----------------------------------------------------------------------------

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxDeviceKey = "device" // context key used for device ID
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// Load resolves the typed companion configuration for a device:
// defaults overlaid with whatever sections the embedded JSON carries.
func Load(device string) (types.CompanionConfig, error) {
	cfg := types.DefaultCompanionConfig()
	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return cfg, &errcode.E{C: errcode.NoConfig, Op: "config.load", Msg: device}
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return types.DefaultCompanionConfig(),
			&errcode.E{C: errcode.DecodeFailed, Op: "config.load", Err: err}
	}
	return cfg, nil
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// publishConfig reads the device config from embedded data and publishes
// each top-level section as a retained message, so services that start
// late still see their section.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return &errcode.E{C: errcode.NoConfig, Op: "config.publish", Msg: "missing device ID"}
	}

	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return &errcode.E{C: errcode.NoConfig, Op: "config.publish", Msg: device}
	}

	r := tinyjson.Raw(raw)
	val := r.Value() // should be a map[string]any
	r.EnsureEOF()

	m, ok := val.(map[string]any)
	if !ok {
		return &errcode.E{C: errcode.DecodeFailed, Op: "config.publish", Msg: "config is not a JSON object"}
	}

	for k, v := range m {
		msg := &bus.Message{
			Topic:    bus.T(configPrefix, k),
			Payload:  v,
			Retained: true,
		}
		conn.Publish(msg)
	}

	return nil
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		_ = s.publishConfig(ctx, conn)
	}()
}
