package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/olcay-sar/discord-bot-gemini/internal/channelruntime/discord"
	"github.com/olcay-sar/discord-bot-gemini/internal/logutil"
	"github.com/olcay-sar/discord-bot-gemini/internal/statepaths"
	"github.com/olcay-sar/discord-bot-gemini/internal/transcript"
	"github.com/olcay-sar/discord-bot-gemini/providers/gemini"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Connect to Discord and serve conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runBot(ctx)
		},
	}

	cmd.Flags().String("discord-bot-token", "", "Discord bot token.")
	cmd.Flags().String("gemini-api-key", "", "Gemini API key.")
	cmd.Flags().String("model", "", "Gemini model name.")
	_ = viper.BindPFlag("discord.bot_token", cmd.Flags().Lookup("discord-bot-token"))
	_ = viper.BindPFlag("llm.api_key", cmd.Flags().Lookup("gemini-api-key"))
	_ = viper.BindPFlag("llm.model", cmd.Flags().Lookup("model"))

	return cmd
}

func runBot(ctx context.Context) error {
	logger, err := logutil.LoggerFromViper()
	if err != nil {
		return err
	}

	botToken := strings.TrimSpace(viper.GetString("discord.bot_token"))
	if botToken == "" {
		return fmt.Errorf("missing discord.bot_token (set via --discord-bot-token or %s_DISCORD_BOT_TOKEN)", envPrefix)
	}

	client, err := gemini.New(ctx, gemini.Options{
		APIKey:         viper.GetString("llm.api_key"),
		Model:          viper.GetString("llm.model"),
		RequestTimeout: viper.GetDuration("llm.request_timeout"),
	})
	if err != nil {
		return err
	}

	factory, err := gatewayFactoryByName(viper.GetString("discord.gateway"))
	if err != nil {
		return err
	}
	gateway, source, err := factory(ctx, botToken, logger)
	if err != nil {
		return fmt.Errorf("connect discord gateway: %w", err)
	}

	runtime, err := discord.New(discord.Config{
		Gateway: gateway,
		Source:  source,
		Client:  client,
		Model:   viper.GetString("llm.model"),
		Store:   transcript.New(statepaths.TranscriptPath()),
		Logger:  logger,
		Options: discord.RunOptions{
			AuthorityUser:    viper.GetString("discord.authority_user"),
			MaxMessageLength: viper.GetInt("discord.max_message_length"),
			MaxQueue:         viper.GetInt("discord.max_queue"),
		},
	})
	if err != nil {
		return err
	}

	if err := runtime.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
