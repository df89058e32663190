package util

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jhprinz/chainstore/lib/medium"
	"github.com/jhprinz/chainstore/lib/medium/engines/filemedium"
	"github.com/jhprinz/chainstore/lib/medium/engines/memmedium"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupMediumFlags adds the common medium-engine flags to a command
func SetupMediumFlags(cmd *cobra.Command) {
	key := "engine"
	cmd.PersistentFlags().String(key, "mem", WrapString("Medium engine to use (mem, file)"))

	key = "dir"
	cmd.PersistentFlags().String(key, ".", WrapString("Directory for column files (file engine only)"))

	key = "values"
	cmd.PersistentFlags().Int(key, 10000, WrapString("Number of value slots per medium"))

	key = "dim"
	cmd.PersistentFlags().Int(key, 1, WrapString("Components per value cell"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("chainstore")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// OpenMedium creates a medium for the configured engine. File-backed media
// live in the configured directory, one column file per name.
func OpenMedium(name string) (medium.Medium, error) {
	size := uint64(viper.GetInt("values"))

	switch viper.GetString("engine") {
	case "mem":
		return memmedium.New(size), nil
	case "file":
		path := filepath.Join(viper.GetString("dir"), name+".col")
		return filemedium.Open(path, viper.GetInt("dim"), size)
	default:
		return nil, fmt.Errorf("invalid engine %s", viper.GetString("engine"))
	}
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
