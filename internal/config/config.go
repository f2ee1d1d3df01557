// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads createch settings from defaults, YAML files, a legacy
// .env file, the environment and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// DotEnvFile is the legacy environment file read from the working directory.
var DotEnvFile = ".env"

// dotEnvKeys maps the variable names of the legacy .env file onto config keys.
var dotEnvKeys = map[string]string{
	"FIREBASE_API_KEY":             "firebase.api_key",
	"FIREBASE_AUTH_DOMAIN":         "firebase.auth_domain",
	"FIREBASE_PROJECT_ID":          "firebase.project_id",
	"FIREBASE_STORAGE_BUCKET":      "firebase.storage_bucket",
	"FIREBASE_MESSAGING_SENDER_ID": "firebase.messaging_sender_id",
	"FIREBASE_APP_ID":              "firebase.app_id",
	"FIREBASE_MEASUREMENT_ID":      "firebase.measurement_id",
	"GOOGLE_WEB_CLIENT_ID":         "oauth.google.web_client_id",
	"GOOGLE_ANDROID_CLIENT_ID":     "oauth.google.android_client_id",
	"FACEBOOK_APP_ID":              "oauth.facebook.app_id",
	"INITIAL_AUTH_TOKEN":           "app.initial_auth_token",
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Createch")
		default:
			configDir = "/etc/createch"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "createch")
	}

	return filepath.Join(configDir, "createch.yaml"), nil
}

// LoadConfig builds a T from the layered sources. When no config file could be
// found the fully populated T is returned together with a
// viper.ConfigFileNotFoundError so callers can persist a default file.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, additionalConfigFilePath *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("createch")
	v.SetConfigType("yaml")

	// An explicit --config path wins over the search paths.
	if additionalConfigFilePath != nil {
		v.SetConfigFile(*additionalConfigFilePath)
	}

	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	var notFound error
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return c, err
		}
		notFound = nf
	}

	if err := mergeDotEnv(v, DotEnvFile); err != nil {
		return c, err
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("createch")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, notFound
}

// mergeDotEnv reads path as KEY=VALUE pairs and merges the known keys into the
// config layer. A missing file is not an error.
func mergeDotEnv(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	env := viper.New()
	env.SetConfigFile(path)
	env.SetConfigType("env")
	if err := env.ReadInConfig(); err != nil {
		return fmt.Errorf("could not read %s: %w", path, err)
	}

	merged := map[string]any{}
	for name, key := range dotEnvKeys {
		// viper lower-cases keys read from env files.
		value := env.GetString(strings.ToLower(name))
		if value == "" {
			continue
		}
		setNested(merged, strings.Split(key, "."), value)
	}
	if len(merged) == 0 {
		return nil
	}
	return v.MergeConfigMap(merged)
}

func setNested(m map[string]any, path []string, value any) {
	for _, p := range path[:len(path)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}

// WriteConfigFile writes c as YAML to the user or system config path and
// returns the path written.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600: the file may hold OAuth client secrets.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
