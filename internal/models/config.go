package models

import "github.com/mitchellh/mapstructure"

// ProviderKind selects which adapter implementation and wire format applies.
type ProviderKind string

const (
	KindMoodle     ProviderKind = "moodle"
	KindCanvas     ProviderKind = "canvas"
	KindBlackboard ProviderKind = "blackboard"
)

// Credentials holds username/password credentials for backends that use them.
type Credentials struct {
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
}

// ProviderConfig describes one configured backend. Immutable after
// construction; the facade builds one adapter per config at startup and never
// recreates it.
type ProviderConfig struct {
	Name        string                 `json:"name" mapstructure:"name"`
	Kind        ProviderKind           `json:"kind" mapstructure:"kind"`
	BaseURL     string                 `json:"baseUrl" mapstructure:"baseUrl"`
	APIKey      string                 `json:"apiKey,omitempty" mapstructure:"apiKey"`
	Credentials *Credentials           `json:"credentials,omitempty" mapstructure:"credentials"`
	Options     map[string]interface{} `json:"options,omitempty" mapstructure:"options"`
}

// MoodleOptions are the Moodle-specific settings carried in
// ProviderConfig.Options.
type MoodleOptions struct {
	TokenService string `mapstructure:"tokenService"`
	RestFormat   string `mapstructure:"restFormat"`
}

// CanvasOptions are the Canvas-specific settings carried in
// ProviderConfig.Options.
type CanvasOptions struct {
	APIVersion string `mapstructure:"apiVersion"`
	AccountID  string `mapstructure:"accountId"`
}

// BlackboardOptions are the Blackboard-specific settings carried in
// ProviderConfig.Options.
type BlackboardOptions struct {
	APIVersion string `mapstructure:"apiVersion"`
	Domain     string `mapstructure:"domain"`
	AppKey     string `mapstructure:"appKey"`
	AppSecret  string `mapstructure:"appSecret"`
}

// DecodeOptions destructures the free-form Options map into a typed
// per-provider options struct.
func (c *ProviderConfig) DecodeOptions(out interface{}) error {
	return mapstructure.Decode(c.Options, out)
}
