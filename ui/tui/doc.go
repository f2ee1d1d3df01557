// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

// Package tui is the interactive terminal UI: a loading view while the session
// bootstraps, then the login and register screens.
package tui
