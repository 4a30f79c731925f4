package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"linkhoard/internal/config"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change AI organization settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		ai := appInstance.Config.AI

		fmt.Printf("provider:        %s\n", ai.Provider)
		fmt.Printf("gemini.model:    %s (key configured: %t)\n", ai.Gemini.Model, ai.Gemini.APIKey != "")
		fmt.Printf("openrouter.model:%s (key configured: %t)\n", ai.OpenRouter.Model, ai.OpenRouter.APIKey != "")
		fmt.Printf("ollama.base_url: %s\n", ai.Ollama.BaseURL)
		fmt.Printf("ollama.model:    %s\n", ai.Ollama.Model)
		fmt.Printf("batch_size:      %d\n", ai.BatchSize)
		fmt.Printf("batch_delay_ms:  %d\n", ai.BatchDelayMs)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one AI setting and persist it",
	Long: `Supported keys: provider, gemini.api_key, gemini.model,
openrouter.api_key, openrouter.model, ollama.base_url, ollama.model,
ollama.api_key, batch_size, batch_delay_ms.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		key, value := args[0], args[1]
		ai := &appInstance.Config.AI

		switch key {
		case "provider":
			ai.Provider = value
		case "gemini.api_key":
			ai.Gemini.APIKey = value
		case "gemini.model":
			ai.Gemini.Model = value
		case "openrouter.api_key":
			ai.OpenRouter.APIKey = value
		case "openrouter.model":
			ai.OpenRouter.Model = value
		case "ollama.base_url":
			ai.Ollama.BaseURL = value
		case "ollama.model":
			ai.Ollama.Model = value
		case "ollama.api_key":
			ai.Ollama.APIKey = value
		case "batch_size":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return fmt.Errorf("batch_size must be a positive integer")
			}
			ai.BatchSize = n
		case "batch_delay_ms":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return fmt.Errorf("batch_delay_ms must be a non-negative integer")
			}
			ai.BatchDelayMs = n
		default:
			return fmt.Errorf("unknown settings key %q", key)
		}

		if err := appInstance.Config.Validate(); err != nil {
			return err
		}
		if err := config.Save(appInstance.Config); err != nil {
			return fmt.Errorf("failed to persist settings: %w", err)
		}
		fmt.Printf("Set %s\n", key)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}
