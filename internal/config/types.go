// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

package config

// Config is the effective createch configuration.
type Config struct {
	Firebase FirebaseConfig `mapstructure:"firebase" yaml:"firebase"`
	OAuth    OAuthConfig    `mapstructure:"oauth" yaml:"oauth"`
	App      AppConfig      `mapstructure:"app" yaml:"app"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Language string         `mapstructure:"language" yaml:"language"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// FirebaseConfig holds the web-app keys of the Firebase project.
type FirebaseConfig struct {
	APIKey            string `mapstructure:"api_key" yaml:"api_key"`
	AuthDomain        string `mapstructure:"auth_domain" yaml:"auth_domain"`
	ProjectID         string `mapstructure:"project_id" yaml:"project_id"`
	StorageBucket     string `mapstructure:"storage_bucket" yaml:"storage_bucket"`
	MessagingSenderID string `mapstructure:"messaging_sender_id" yaml:"messaging_sender_id"`
	AppID             string `mapstructure:"app_id" yaml:"app_id"`
	MeasurementID     string `mapstructure:"measurement_id" yaml:"measurement_id"`
	// AuthEmulatorHost points the Identity Toolkit client at a local emulator.
	AuthEmulatorHost string `mapstructure:"auth_emulator_host" yaml:"auth_emulator_host"`
}

// MissingKeys lists the required keys that are empty.
func (f FirebaseConfig) MissingKeys() []string {
	var out []string
	for key, value := range map[string]string{
		"firebase.api_key":    f.APIKey,
		"firebase.project_id": f.ProjectID,
		"firebase.app_id":     f.AppID,
	} {
		if value == "" {
			out = append(out, key)
		}
	}
	return out
}

type OAuthConfig struct {
	// RedirectAddr is the loopback address receiving provider redirects.
	RedirectAddr string         `mapstructure:"redirect_addr" yaml:"redirect_addr"`
	Google       GoogleConfig   `mapstructure:"google" yaml:"google"`
	Facebook     FacebookConfig `mapstructure:"facebook" yaml:"facebook"`
}

type GoogleConfig struct {
	WebClientID     string `mapstructure:"web_client_id" yaml:"web_client_id"`
	AndroidClientID string `mapstructure:"android_client_id" yaml:"android_client_id"`
	ClientSecret    string `mapstructure:"client_secret" yaml:"client_secret"`
}

type FacebookConfig struct {
	AppID     string `mapstructure:"app_id" yaml:"app_id"`
	AppSecret string `mapstructure:"app_secret" yaml:"app_secret"`
}

type AppConfig struct {
	// Namespace scopes every profile document path.
	Namespace        string `mapstructure:"namespace" yaml:"namespace"`
	InitialAuthToken string `mapstructure:"initial_auth_token" yaml:"initial_auth_token"`
}

type DatabaseConfig struct {
	Type string `mapstructure:"type" yaml:"type"`
	Dsn  string `mapstructure:"dsn" yaml:"dsn"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// Defaults returns a value for every key so that environment variables are
// picked up for keys that appear in no file.
func Defaults() map[string]any {
	return map[string]any{
		"firebase.api_key":               "",
		"firebase.auth_domain":           "",
		"firebase.project_id":            "",
		"firebase.storage_bucket":        "",
		"firebase.messaging_sender_id":   "",
		"firebase.app_id":                "",
		"firebase.measurement_id":        "",
		"firebase.auth_emulator_host":    "",
		"oauth.redirect_addr":            "127.0.0.1:8765",
		"oauth.google.web_client_id":     "",
		"oauth.google.android_client_id": "",
		"oauth.google.client_secret":     "",
		"oauth.facebook.app_id":          "",
		"oauth.facebook.app_secret":      "",
		"app.namespace":                  "createch-live-app-id",
		"app.initial_auth_token":         "",
		"database.type":                  "sqlite",
		"database.dsn":                   "./createch.db",
		"language":                       "en",
		"log.level":                      "info",
		"log.file":                       "",
	}
}
