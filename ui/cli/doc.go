// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for Createch using Cobra.
// It loads configuration, opens the local store, starts the session and
// delegates every user action to the handlers in core/account and
// core/federated. Commands stay thin.
package cli
