package statepaths

import (
	"github.com/spf13/viper"

	"github.com/olcay-sar/discord-bot-gemini/internal/pathutil"
)

func FileStateDir() string {
	return pathutil.ResolveStateDir(viper.GetString("file_state_dir"))
}

// TranscriptPath resolves the location of the persisted conversation
// transcript (transcript.file_name under file_state_dir).
func TranscriptPath() string {
	name := viper.GetString("transcript.file_name")
	if name == "" {
		name = "chat_history.json"
	}
	return pathutil.ResolveStateFile(viper.GetString("file_state_dir"), name)
}
