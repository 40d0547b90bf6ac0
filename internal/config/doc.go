// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// # Example
//
//	[server]
//	url = "https://tasking.example.internal:7443"
//	token = "..."
//	timeout_secs = 15
//
//	[console]
//	data_dir = "~/payload-staging"
//	default_pipe_name = "agentsvc"
//
//	[log]
//	level = "debug"
package config
