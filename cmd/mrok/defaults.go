package main

import (
	"time"

	"github.com/spf13/viper"
)

func initViperDefaults() {
	// Backend
	viper.SetDefault("llm.model", "gemini-2.5-flash")
	viper.SetDefault("llm.api_key", "")
	viper.SetDefault("llm.request_timeout", 90*time.Second)

	// Discord surface
	viper.SetDefault("discord.bot_token", "")
	viper.SetDefault("discord.gateway", "")
	viper.SetDefault("discord.authority_user", "")
	viper.SetDefault("discord.max_message_length", 2000)
	viper.SetDefault("discord.max_queue", 64)

	// State
	viper.SetDefault("file_state_dir", "~/.mrok")
	viper.SetDefault("transcript.file_name", "chat_history.json")

	// Logging
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.add_source", false)
	viper.SetDefault("trace", false)
}
