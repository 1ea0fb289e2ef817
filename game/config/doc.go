// Package config provides configuration management for the 2048 server.
//
// The config package handles two kinds of configuration:
//   - Board presets: JSON files in a config directory, loaded and cached by Manager
//   - Process settings: environment variables parsed into Settings
//
// Preset Format:
//
//	{
//	  "name": "classic",
//	  "description": "Classic 4x4 board starting empty",
//	  "size": 4,
//	  "layout": [[0,0,0,0],[0,2,0,0],[0,0,0,0],[0,0,0,0]],
//	  "messages": {"welcome": "Welcome!", "moved": "Score: %d"}
//	}
//
// The layout is optional; without one the game starts on an empty board.
// Every preset is checked with engine.ValidateGameConfig before use.
//
// Default Preset:
//
// The manager uses classic.json when it exists, otherwise the first valid
// preset in the directory, otherwise a built-in empty 4x4 preset.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("corner")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
//	settings, err := config.LoadSettingsFromEnv()
package config
